package handler

import (
	"errors"
	"strings"

	"github.com/ErlanBelekov/student-gifts/internal/domain"
	"github.com/ErlanBelekov/student-gifts/internal/token"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	errInvalidBody     = "Invalid request body"
	errInvalidQuery    = "Invalid query params"
	errMissingAuthz    = "Invalid authorization token"
	authorizationField = "authorization"
)

// bindError converts a gin binding failure into a Validation error with one
// issue per rejected field.
func bindError(message string, err error) *domain.Error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.NewValidation(message, domain.Issue{Path: "", Reason: err.Error()}).Wrap(err)
	}

	issues := make([]domain.Issue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, domain.Issue{
			Path:   fieldPath(fe.Namespace()),
			Reason: fe.Tag(),
			Value:  fe.Param(),
		})
	}
	return domain.NewValidation(message, issues...).Wrap(err)
}

// fieldPath turns "claimRequest.Gift.ID" into "gift.id".
func fieldPath(ns string) string {
	parts := strings.Split(ns, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		switch {
		case p == "":
		case strings.ToUpper(p) == p:
			parts[i] = strings.ToLower(p)
		default:
			parts[i] = strings.ToLower(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, ".")
}

// authToken returns the token from the Authorization header. The web client
// sends it bare; "Bearer <token>" is accepted too.
func authToken(c *gin.Context) (string, error) {
	tok := token.StripBearer(c.GetHeader("Authorization"))
	if tok == "" {
		return "", domain.NewValidation(errMissingAuthz, domain.Issue{Path: authorizationField, Reason: "required"})
	}
	return tok, nil
}
