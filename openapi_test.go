package main_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/getkin/kin-openapi/openapi3"
)

var _ = Describe("OpenAPI document", func() {
	var doc *openapi3.T

	BeforeEach(func() {
		loader := openapi3.NewLoader()
		var err error
		doc, err = loader.LoadFromFile("api/openapi.yml")
		Expect(err).NotTo(HaveOccurred())
	})

	It("is a valid OpenAPI 3 document", func() {
		Expect(doc.Validate(context.Background())).To(Succeed())
	})

	It("documents the requisition lifecycle endpoints", func() {
		for _, path := range []string{
			"/requisitions",
			"/requisitions/my",
			"/requisitions/{id}",
			"/requisitions/{id}/approve",
			"/requisitions/{id}/reject",
			"/requisitions/{id}/receive",
		} {
			Expect(doc.Paths.Find(path)).NotTo(BeNil(), "missing path %s", path)
		}
	})

	It("documents the inventory and report endpoints", func() {
		for _, path := range []string{
			"/equipment",
			"/equipment/search",
			"/equipment/{id}",
			"/equipment/{id}/image",
			"/reports/requisitions",
			"/dashboard",
		} {
			Expect(doc.Paths.Find(path)).NotTo(BeNil(), "missing path %s", path)
		}
	})
})
