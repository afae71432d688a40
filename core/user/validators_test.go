package user_test

import (
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
	inmemdb "github.com/trezcool/darasa/storage/database/inmem"
)

func TestNewUser_Validate_passwordPolicy(t *testing.T) {
	conf := core.NewConfig("test")
	conf.TestMode = true

	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)
	user.RegisterValidators(validate, translator, conf)

	svc := user.NewService(inmemdb.NewUserRepository(inmemdb.Open()))

	newUsr := func(pwd string) *user.NewUser {
		return &user.NewUser{
			Name:            "Awe Mane",
			Username:        "awemane",
			Email:           "awe@test.cd",
			Password:        pwd,
			PasswordConfirm: pwd,
			Roles:           []string{user.RoleStudent},
		}
	}

	tests := []struct {
		name    string
		pwd     string
		wantTag string // empty: valid
	}{
		{name: "too short", pwd: "aB1!", wantTag: "pwdminlen"},
		{name: "whitespace", pwd: "aB1! aB1!", wantTag: "pwdnospace"},
		{name: "all numeric", pwd: "12345678", wantTag: "pwdnotallnum"},
		{name: "no complexity", pwd: "abcdefgh", wantTag: "pwdcplx"},
		{name: "similar to username", pwd: "Awemane1!", wantTag: "pwdtoosim"},
		{name: "valid", pwd: "Va$t1y-Secure"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newUsr(tt.pwd).Validate(validate, translator, svc)
			if tt.wantTag == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}

			vErrs, ok := err.(validator.ValidationErrors)
			if !ok {
				t.Fatalf("Validate() error = %v, want validator.ValidationErrors", err)
			}
			for _, vErr := range vErrs {
				if vErr.Tag() == tt.wantTag {
					return
				}
			}
			t.Errorf("Validate() did not report %q; got %v", tt.wantTag, err)
		})
	}
}

func TestUser_roles(t *testing.T) {
	usr := user.User{Roles: []string{user.RoleStudent}}
	if !usr.IsStudent() || usr.IsInstructor() || usr.IsAdmin() {
		t.Errorf("unexpected role flags for %v", usr.Roles)
	}

	usr.Roles = []string{user.RoleInstructor}
	if !usr.IsInstructor() || usr.IsStudent() {
		t.Errorf("unexpected role flags for %v", usr.Roles)
	}

	usr.Roles = []string{user.RoleAdminOwner}
	if !usr.IsAdmin() {
		t.Errorf("unexpected role flags for %v", usr.Roles)
	}

	if user.MaxRolePriority([]string{user.RoleStudent, user.RoleAdmin}) <= user.MaxRolePriority([]string{user.RoleInstructor}) {
		t.Error("admin should outrank instructor")
	}
}
