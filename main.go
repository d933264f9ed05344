package main

import "github.com/prasetya/requisition-tracker/cmd"

func main() {
	cmd.Execute()
}
