//go:build integration_test || all_tests

package test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/2beens/academy/internal/account"
	"github.com/2beens/academy/internal/auth"
	"github.com/2beens/academy/internal/session"
)

type loginResponse struct {
	Account  account.Account `json:"account"`
	Redirect string          `json:"redirect"`
	Error    string          `json:"error"`
	FormID   string          `json:"formId"`
}

func (s *IntegrationTestSuite) postLogin(client *http.Client, role account.Role, email, password, formID string) (int, loginResponse) {
	body, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
		"formId":   formID,
	})
	s.Require().NoError(err)

	resp, err := client.Post(serverEndpoint+"/"+string(role)+"/login", "application/json", strings.NewReader(string(body)))
	s.Require().NoError(err)
	defer resp.Body.Close()

	var loginResp loginResponse
	respBytes, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	s.Require().NoError(json.Unmarshal(respBytes, &loginResp), string(respBytes))
	return resp.StatusCode, loginResp
}

func (s *IntegrationTestSuite) get(client *http.Client, path string) (int, []byte) {
	resp, err := client.Get(serverEndpoint + path)
	s.Require().NoError(err)
	defer resp.Body.Close()
	respBytes, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp.StatusCode, respBytes
}

func (s *IntegrationTestSuite) TestAdminLogin_Success() {
	browser := s.newBrowser()

	statusCode, resp := s.postLogin(browser, account.RoleAdmin, s.admin.Email, testPassword, "")
	s.Require().Equal(http.StatusOK, statusCode, resp.Error)
	s.Equal("/admin/home", resp.Redirect)
	s.Equal(s.admin.ID, resp.Account.ID)
	s.Equal(s.admin.Name, resp.Account.Name)
	s.Nil(resp.Account.Player)

	statusCode, body := s.get(browser, "/admin/session")
	s.Require().Equal(http.StatusOK, statusCode)
	var entry session.Entry
	s.Require().NoError(json.Unmarshal(body, &entry))
	s.Equal(s.admin.Email, entry.Account.Email)

	statusCode, _ = s.get(browser, "/admin/home")
	s.Equal(http.StatusOK, statusCode)
}

func (s *IntegrationTestSuite) TestPlayerLogin_Scenarios() {
	browser := s.newBrowser()

	// pending approval: no session
	statusCode, resp := s.postLogin(browser, account.RolePlayer, s.pendingPlayer.Email, testPassword, "")
	s.Equal(http.StatusForbidden, statusCode)
	s.Equal(auth.MsgPendingApproval, resp.Error)
	statusCode, _ = s.get(browser, "/player/session")
	s.Equal(http.StatusNotFound, statusCode)

	// wrong password and unknown email read the same
	statusCode, resp = s.postLogin(browser, account.RolePlayer, s.approvedPlayer.Email, "wrong", "")
	s.Equal(http.StatusUnauthorized, statusCode)
	s.Equal(auth.MsgInvalidEmailOrPass, resp.Error)
	statusCode, resp = s.postLogin(browser, account.RolePlayer, "nobody@example.com", testPassword, "")
	s.Equal(http.StatusUnauthorized, statusCode)
	s.Equal(auth.MsgInvalidEmailOrPass, resp.Error)

	// admin email on the player page is not a player
	statusCode, _ = s.postLogin(browser, account.RolePlayer, s.admin.Email, testPassword, "")
	s.Equal(http.StatusUnauthorized, statusCode)

	// surrounding whitespace in the email is ignored
	statusCode, resp = s.postLogin(browser, account.RolePlayer, "  "+s.approvedPlayer.Email+" ", testPassword, "")
	s.Require().Equal(http.StatusOK, statusCode, resp.Error)
	s.Equal("/player/home", resp.Redirect)
	s.Require().NotNil(resp.Account.Player)
	s.True(resp.Account.Player.IsApproved)
	s.Equal("U17", resp.Account.Player.Batch)
}

func (s *IntegrationTestSuite) TestRoleSwitch_EvictsOtherSlot() {
	browser := s.newBrowser()

	statusCode, _ := s.postLogin(browser, account.RolePlayer, s.approvedPlayer.Email, testPassword, "")
	s.Require().Equal(http.StatusOK, statusCode)
	statusCode, _ = s.get(browser, "/player/home")
	s.Equal(http.StatusOK, statusCode)

	statusCode, _ = s.postLogin(browser, account.RoleAdmin, s.admin.Email, testPassword, "")
	s.Require().Equal(http.StatusOK, statusCode)

	statusCode, _ = s.get(browser, "/player/session")
	s.Equal(http.StatusNotFound, statusCode)
	statusCode, _ = s.get(browser, "/admin/session")
	s.Equal(http.StatusOK, statusCode)

	// a failed player login leaves the admin session alone
	statusCode, _ = s.postLogin(browser, account.RolePlayer, s.approvedPlayer.Email, "wrong", "")
	s.Equal(http.StatusUnauthorized, statusCode)
	statusCode, _ = s.get(browser, "/admin/session")
	s.Equal(http.StatusOK, statusCode)

	// and another browser is unaffected by all of it
	statusCode, _ = s.get(s.newBrowser(), "/admin/home")
	s.Equal(http.StatusUnauthorized, statusCode)
}

func (s *IntegrationTestSuite) TestFormPost_RedirectsAndSwitch() {
	browser := s.newBrowser()

	resp, err := browser.Get(serverEndpoint + "/player/login/switch")
	s.Require().NoError(err)
	s.Require().NoError(resp.Body.Close())
	s.Equal(http.StatusSeeOther, resp.StatusCode)
	s.Equal("/admin/login", resp.Header.Get("Location"))

	form := url.Values{}
	form.Set("email", s.admin.Email)
	form.Set("password", "wrong")
	form.Set("formId", "integration-form")
	resp, err = browser.PostForm(serverEndpoint+"/admin/login", form)
	s.Require().NoError(err)
	s.Require().NoError(resp.Body.Close())
	s.Require().Equal(http.StatusSeeOther, resp.StatusCode)
	location, err := url.Parse(resp.Header.Get("Location"))
	s.Require().NoError(err)
	s.Equal("/admin/login", location.Path)
	s.Equal(auth.MsgInvalidEmailOrPass, location.Query().Get("error"))
	s.Equal("integration-form", location.Query().Get("formId"))

	form.Set("password", testPassword)
	resp, err = browser.PostForm(serverEndpoint+"/admin/login", form)
	s.Require().NoError(err)
	s.Require().NoError(resp.Body.Close())
	s.Equal(http.StatusSeeOther, resp.StatusCode)
	s.Equal("/admin/home", resp.Header.Get("Location"))
}

func (s *IntegrationTestSuite) TestConcurrentSubmissions_LastWriteWins() {
	browser := s.newBrowser()
	// first request issues the client cookie, so both submissions share the browser
	statusCode, _ := s.get(browser, "/player/login")
	s.Require().Equal(http.StatusOK, statusCode)

	var wg sync.WaitGroup
	statusCodes := make([]int, 2)
	for i, role := range []account.Role{account.RolePlayer, account.RoleAdmin} {
		wg.Add(1)
		go func(i int, role account.Role) {
			defer wg.Done()
			email := s.approvedPlayer.Email
			if role == account.RoleAdmin {
				email = s.admin.Email
			}
			// distinct form instances: both go through
			body := `{"email":"` + email + `","password":"` + testPassword + `"}`
			resp, err := browser.Post(serverEndpoint+"/"+string(role)+"/login", "application/json", strings.NewReader(body))
			if err != nil {
				return
			}
			statusCodes[i] = resp.StatusCode
			_ = resp.Body.Close()
		}(i, role)
	}
	wg.Wait()
	s.Equal([]int{http.StatusOK, http.StatusOK}, statusCodes)

	playerStatus, _ := s.get(browser, "/player/session")
	adminStatus, _ := s.get(browser, "/admin/session")
	// exactly one slot survives
	s.ElementsMatch([]int{http.StatusOK, http.StatusNotFound}, []int{playerStatus, adminStatus})
}

func (s *IntegrationTestSuite) TestLogout() {
	browser := s.newBrowser()

	statusCode, _ := s.postLogin(browser, account.RoleAdmin, s.admin.Email, testPassword, "")
	s.Require().Equal(http.StatusOK, statusCode)

	resp, err := browser.Post(serverEndpoint+"/logout", "", nil)
	s.Require().NoError(err)
	s.Require().NoError(resp.Body.Close())
	s.Equal(http.StatusOK, resp.StatusCode)

	statusCode, _ = s.get(browser, "/admin/home")
	s.Equal(http.StatusUnauthorized, statusCode)
}
