package user

import (
	"os"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/ratiba/core"
)

func newTestValidator(t *testing.T) (*validator.Validate, ut.Translator) {
	t.Helper()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	translator, _ := uni.GetTranslator(enLocale.Locale())

	validate := validator.New()
	core.InitValidators(validate, translator)

	wd, _ := os.Getwd()
	RegisterValidators(&core.Config{WorkDir: wd}, validate, translator)
	return validate, translator
}

func TestPasswordPolicy(t *testing.T) {
	validate, _ := newTestValidator(t)

	base := NewUser{
		Name:            "Awesome User",
		Username:        "awesomeuser",
		Email:           "user@test.test",
		PasswordConfirm: "",
	}

	tests := []struct {
		name    string
		pwd     string
		wantTag string
	}{
		{name: "too short", pwd: "aB1!", wantTag: pwdMinLenTag},
		{name: "has whitespace", pwd: "aB1! aB1!", wantTag: pwdNoSpaceTag},
		{name: "all numeric", pwd: "12345678", wantTag: pwdNotAllNumTag},
		{name: "no complexity", pwd: "abcdefgh", wantTag: pwdComplexityTag},
		{name: "similar to username", pwd: "Awesomeuser1!", wantTag: pwdAttrSimTag},
		{name: "valid", pwd: "G00d&Unguessable"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			nu := base
			nu.Password = tc.pwd
			nu.PasswordConfirm = tc.pwd

			err := validate.Struct(nu)
			if tc.wantTag == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}

			vErrs, ok := err.(validator.ValidationErrors)
			if !ok {
				t.Fatalf("error = %v, want validator.ValidationErrors", err)
			}
			for _, fe := range vErrs {
				if fe.Tag() == tc.wantTag {
					return
				}
			}
			t.Errorf("tag %q not reported; got %v", tc.wantTag, vErrs)
		})
	}
}

func TestAllRolesValidation(t *testing.T) {
	validate, _ := newTestValidator(t)

	nu := NewUser{
		Name:            "Awesome User",
		Username:        "awesomeuser",
		Email:           "user@test.test",
		Password:        "G00d&Unguessable",
		PasswordConfirm: "G00d&Unguessable",
		Roles:           []string{"superhero:"},
	}
	err := validate.Struct(nu)
	vErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		t.Fatalf("error = %v, want validator.ValidationErrors", err)
	}
	found := false
	for _, fe := range vErrs {
		if fe.Tag() == allRolesTag {
			found = true
		}
	}
	if !found {
		t.Errorf("allroles violation not reported: %v", vErrs)
	}

	nu.Roles = []string{RoleStudent, RoleAdmin}
	if err := validate.Struct(nu); err != nil {
		t.Errorf("valid roles rejected: %v", err)
	}
}

func TestUsernameOrEmailRequired(t *testing.T) {
	validate, _ := newTestValidator(t)

	nu := NewUser{
		Name:            "Awesome User",
		Password:        "G00d&Unguessable",
		PasswordConfirm: "G00d&Unguessable",
	}
	err := validate.Struct(nu)
	vErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		t.Fatalf("error = %v, want validator.ValidationErrors", err)
	}
	count := 0
	for _, fe := range vErrs {
		if fe.Tag() == usernameOrEmailTag {
			count++
		}
	}
	if count != 2 {
		t.Errorf("username_or_email reported %d times, want 2: %v", count, vErrs)
	}
}
