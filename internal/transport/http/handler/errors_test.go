package handler

import "testing"

func TestFieldPath(t *testing.T) {
	cases := map[string]string{
		"claimRequest.Gift.ID":        "gift.id",
		"claimRequest.User.Email":     "user.email",
		"signUpRequest.FullName":      "fullName",
		"credentialsRequest.Password": "password",
	}
	for in, want := range cases {
		if got := fieldPath(in); got != want {
			t.Errorf("fieldPath(%q) = %q, want %q", in, got, want)
		}
	}
}
