package login

import (
	"net/http"
	"net/url"

	"github.com/2beens/academy/internal/account"
)

// Navigator resolves the paths a login page transitions to.
type Navigator struct{}

func NewNavigator() *Navigator {
	return &Navigator{}
}

// Landing is where a freshly logged in account of the role goes.
func (n *Navigator) Landing(role account.Role) (string, error) {
	descriptor, err := account.DescriptorFor(role)
	if err != nil {
		return "", err
	}
	return descriptor.LandingPath, nil
}

// SwitchTo is the login page of the other role, requested from the role's login page.
func (n *Navigator) SwitchTo(role account.Role) (string, error) {
	descriptor, err := account.DescriptorFor(role)
	if err != nil {
		return "", err
	}
	return descriptor.Other().LoginPath, nil
}

func (n *Navigator) LoginPage(role account.Role) (string, error) {
	descriptor, err := account.DescriptorFor(role)
	if err != nil {
		return "", err
	}
	return descriptor.LoginPath, nil
}

// LoginPageWithError is the login page carrying a user-facing error message.
func (n *Navigator) LoginPageWithError(role account.Role, message, formID string) (string, error) {
	loginPath, err := n.LoginPage(role)
	if err != nil {
		return "", err
	}
	query := url.Values{}
	query.Set("error", message)
	if formID != "" {
		query.Set("formId", formID)
	}
	return loginPath + "?" + query.Encode(), nil
}

// TransitionTo sends the browser to path.
func (n *Navigator) TransitionTo(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusSeeOther)
}
