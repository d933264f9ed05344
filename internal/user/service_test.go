package user_test

import (
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/prasetya/requisition-tracker/internal/auth"
	"github.com/prasetya/requisition-tracker/internal/user"
)

func TestUserService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "UserService Suite")
}

type mockUserRepository struct {
	users  map[int64]*user.User
	emails map[string]int64
	nextID int64
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users:  make(map[int64]*user.User),
		emails: make(map[string]int64),
		nextID: 1,
	}
}

func (m *mockUserRepository) GetAll() ([]*user.User, error) {
	var out []*user.User
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *mockUserRepository) GetByID(id int64) (*user.User, error) {
	u, exists := m.users[id]
	if !exists {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserRepository) CreateWithProfile(u *user.User) error {
	if _, taken := m.emails[u.Email]; taken {
		return user.ErrDuplicateEmail
	}
	u.ID = m.nextID
	m.nextID++
	if u.Profile != nil {
		u.Profile.UserID = u.ID
	}
	m.users[u.ID] = u
	m.emails[u.Email] = u.ID
	return nil
}

func (m *mockUserRepository) Update(u *user.User) error {
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepository) Delete(id int64) error {
	if u, exists := m.users[id]; exists {
		delete(m.emails, u.Email)
	}
	delete(m.users, id)
	return nil
}

type plainHasher struct{}

func (plainHasher) HashPassword(password string) (string, error) {
	return "hashed:" + password, nil
}

var _ = Describe("UserService", func() {
	var (
		service  *user.Service
		mockRepo *mockUserRepository
		logger   *slog.Logger
	)

	validDTO := func() user.CreateUserDTO {
		return user.CreateUserDTO{
			Email:      "bagus@mail.com",
			Name:       "Bagus",
			Password:   "supersecret",
			Company:    "PT Maju Bersama",
			Branch:     "Bandung",
			Department: "Engineering",
			EmployeeID: "ENG-042",
		}
	}

	BeforeEach(func() {
		mockRepo = newMockUserRepository()
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = user.NewService(mockRepo, plainHasher{}, logger)
	})

	Describe("CreateUser", func() {
		It("should create the account and its profile together", func() {
			u, err := service.CreateUser(validDTO())
			Expect(err).ToNot(HaveOccurred())
			Expect(u.ID).To(BeNumerically(">", 0))
			Expect(u.IsActive).To(BeTrue())
			Expect(u.PasswordHash).To(Equal("hashed:supersecret"))
			Expect(u.Profile).ToNot(BeNil())
			Expect(u.Profile.UserID).To(Equal(u.ID))
			Expect(u.Profile.Department).To(Equal("Engineering"))
		})

		It("should default to the user role", func() {
			u, err := service.CreateUser(validDTO())
			Expect(err).ToNot(HaveOccurred())
			Expect(u.Role).To(Equal(auth.RoleUser))
			Expect(u.IsStaff()).To(BeFalse())
		})

		It("should accept the staff role", func() {
			dto := validDTO()
			dto.Role = auth.RoleStaff

			u, err := service.CreateUser(dto)
			Expect(err).ToNot(HaveOccurred())
			Expect(u.IsStaff()).To(BeTrue())
		})

		It("should reject an unknown role", func() {
			dto := validDTO()
			dto.Role = "superadmin"

			_, err := service.CreateUser(dto)
			Expect(err).To(HaveOccurred())
		})

		It("should reject a short password", func() {
			dto := validDTO()
			dto.Password = "short"

			_, err := service.CreateUser(dto)
			Expect(err).To(HaveOccurred())
		})

		It("should surface a duplicate email", func() {
			_, err := service.CreateUser(validDTO())
			Expect(err).ToNot(HaveOccurred())

			_, err = service.CreateUser(validDTO())
			Expect(err).To(MatchError(user.ErrDuplicateEmail))
		})
	})

	Describe("UpdateUser", func() {
		var created *user.User

		BeforeEach(func() {
			var err error
			created, err = service.CreateUser(validDTO())
			Expect(err).ToNot(HaveOccurred())
		})

		It("should keep the password when none is provided", func() {
			updated, err := service.UpdateUser(created.ID, user.UpdateUserDTO{
				Name:       "Bagus Updated",
				Department: "Operations",
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(updated.Name).To(Equal("Bagus Updated"))
			Expect(updated.PasswordHash).To(Equal("hashed:supersecret"))
			Expect(updated.Profile.Department).To(Equal("Operations"))
		})

		It("should rehash a provided password", func() {
			updated, err := service.UpdateUser(created.ID, user.UpdateUserDTO{
				Name:     "Bagus",
				Password: "anothersecret",
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(updated.PasswordHash).To(Equal("hashed:anothersecret"))
		})

		It("should allow deactivating an account", func() {
			inactive := false
			updated, err := service.UpdateUser(created.ID, user.UpdateUserDTO{
				Name:     "Bagus",
				IsActive: &inactive,
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(updated.IsActive).To(BeFalse())
		})

		It("should allow promoting to staff", func() {
			updated, err := service.UpdateUser(created.ID, user.UpdateUserDTO{
				Name: "Bagus",
				Role: auth.RoleStaff,
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(updated.IsStaff()).To(BeTrue())
		})

		It("should report a missing user", func() {
			_, err := service.UpdateUser(42, user.UpdateUserDTO{Name: "Nobody"})
			Expect(err).To(MatchError(user.ErrUserNotFound))
		})
	})

	Describe("DeleteUser", func() {
		It("should delete an existing user", func() {
			created, err := service.CreateUser(validDTO())
			Expect(err).ToNot(HaveOccurred())

			Expect(service.DeleteUser(created.ID)).To(Succeed())
			Expect(mockRepo.users).ToNot(HaveKey(created.ID))
		})

		It("should report a missing user", func() {
			Expect(service.DeleteUser(42)).To(MatchError(user.ErrUserNotFound))
		})
	})
})
