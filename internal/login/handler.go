package login

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"github.com/2beens/academy/internal/account"
	"github.com/2beens/academy/internal/auth"
	"github.com/2beens/academy/internal/middleware"
	"github.com/2beens/academy/internal/session"
	"github.com/2beens/academy/internal/telemetry/tracing"
	"github.com/2beens/academy/pkg"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=login_test

type submitter interface {
	Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error)
	MessagePolicy() auth.MessagePolicy
}

type sessionReader interface {
	Get(ctx context.Context, clientID string, role account.Role) (*session.Entry, error)
	Clear(ctx context.Context, clientID string) error
}

type Handler struct {
	flow      submitter
	sessions  sessionReader
	navigator *Navigator
}

func NewHandler(flow submitter, sessions sessionReader, navigator *Navigator) *Handler {
	if navigator == nil {
		navigator = NewNavigator()
	}
	return &Handler{
		flow:      flow,
		sessions:  sessions,
		navigator: navigator,
	}
}

const rolePattern = "{role:player|admin}"

func (handler *Handler) SetupRoutes(mainRouter *mux.Router, roleGuard *middleware.RoleGuard) {
	mainRouter.HandleFunc("/"+rolePattern+"/login", handler.HandleLoginForm).Methods("GET", "OPTIONS").Name("login-form")
	mainRouter.HandleFunc("/"+rolePattern+"/login", handler.HandleLogin).Methods("POST").Name("login")
	mainRouter.HandleFunc("/"+rolePattern+"/login/switch", handler.HandleSwitch).Methods("GET").Name("login-switch")
	mainRouter.HandleFunc("/"+rolePattern+"/session", handler.HandleSession).Methods("GET", "OPTIONS").Name("session")
	mainRouter.HandleFunc("/logout", handler.HandleLogout).Methods("POST", "OPTIONS").Name("logout")

	for _, descriptor := range account.Descriptors() {
		mainRouter.Handle(
			descriptor.LandingPath,
			roleGuard.RequireRole(descriptor.Role)(http.HandlerFunc(handler.HandleHome)),
		).Methods("GET", "OPTIONS").Name(descriptor.Role.String() + "-home")
	}
}

type FormInstance struct {
	FormID     string       `json:"formId"`
	Role       account.Role `json:"role"`
	Action     string       `json:"action"`
	SwitchPath string       `json:"switchPath"`
	Error      string       `json:"error,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FormID   string `json:"formId"`
}

type loginResponse struct {
	Account  *account.Account `json:"account"`
	Redirect string           `json:"redirect"`
}

type errorResponse struct {
	Error  string `json:"error"`
	FormID string `json:"formId,omitempty"`
}

func roleFromRequest(r *http.Request) (account.Role, error) {
	return account.ParseRole(mux.Vars(r)["role"])
}

// HandleLoginForm issues a new form instance. Each instance can be submitted once at a time.
func (handler *Handler) HandleLoginForm(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "loginHandler.form")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	role, err := roleFromRequest(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	loginPath, _ := handler.navigator.LoginPage(role)
	switchPath, _ := handler.navigator.SwitchTo(role)
	form := FormInstance{
		FormID:     uuid.NewString(),
		Role:       role,
		Action:     loginPath,
		SwitchPath: switchPath,
		Error:      r.URL.Query().Get("error"),
	}
	if formID := r.URL.Query().Get("formId"); formID != "" {
		// back from a failed post: the same instance is submitted again
		form.FormID = formID
	}

	formBytes, err := json.Marshal(form)
	if err != nil {
		log.Errorf("marshal login form: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, formBytes)
}

// HandleLogin takes a JSON or form body with email, password and formId.
// A body without formId is submitted as the role's DefaultFormID.
func (handler *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "loginHandler.login")
	defer span.End()

	role, err := roleFromRequest(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	span.SetAttributes(attribute.String("account.role", role.String()))

	clientID, ok := middleware.ClientIDFromContext(ctx)
	if !ok {
		log.Errorf("login: no client id for %s", r.URL.Path)
		http.Error(w, "missing client identity", http.StatusBadRequest)
		return
	}

	isJSON := isJSONRequest(r)
	var loginReq loginRequest
	if isJSON {
		if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
			log.Errorf("login, unmarshal json params: %s", err)
			http.Error(w, "login failed", http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			log.Errorf("login failed, parse form error: %s", err)
			http.Error(w, "parse form error", http.StatusBadRequest)
			return
		}
		loginReq = loginRequest{
			Email:    r.PostForm.Get("email"),
			Password: r.PostForm.Get("password"),
			FormID:   r.PostForm.Get("formId"),
		}
	}

	result, err := handler.flow.Submit(ctx, SubmitRequest{
		Role:     role,
		ClientID: clientID,
		FormID:   loginReq.FormID,
		Credentials: auth.Credentials{
			Email:    loginReq.Email,
			Password: loginReq.Password,
		},
	})
	if err != nil {
		span.SetStatus(codes.Error, auth.Outcome(err))
		handler.writeLoginError(w, r, role, isJSON, result, err)
		return
	}

	span.SetStatus(codes.Ok, "ok")
	if !isJSON {
		handler.navigator.TransitionTo(w, r, result.Redirect)
		return
	}

	respBytes, err := json.Marshal(loginResponse{
		Account:  result.Account,
		Redirect: result.Redirect,
	})
	if err != nil {
		log.Errorf("marshal login response: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respBytes)
}

func (handler *Handler) writeLoginError(w http.ResponseWriter, r *http.Request, role account.Role, isJSON bool, result *SubmitResult, err error) {
	message := auth.UserMessage(handler.flow.MessagePolicy(), err)
	var formID string
	if result != nil {
		formID = result.FormID
		if result.Message != "" {
			message = result.Message
		}
	}

	if !isJSON {
		loginPath, pathErr := handler.navigator.LoginPageWithError(role, message, formID)
		if pathErr != nil {
			http.Error(w, message, auth.StatusCode(err))
			return
		}
		handler.navigator.TransitionTo(w, r, loginPath)
		return
	}

	respBytes, marshalErr := json.Marshal(errorResponse{
		Error:  message,
		FormID: formID,
	})
	if marshalErr != nil {
		http.Error(w, message, auth.StatusCode(err))
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respBytes, auth.StatusCode(err))
}

// HandleSwitch sends the browser from this role's login page to the other role's.
func (handler *Handler) HandleSwitch(w http.ResponseWriter, r *http.Request) {
	role, err := roleFromRequest(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	switchPath, err := handler.navigator.SwitchTo(role)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	handler.navigator.TransitionTo(w, r, switchPath)
}

func (handler *Handler) HandleSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "loginHandler.session")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	role, err := roleFromRequest(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	clientID, ok := middleware.ClientIDFromContext(ctx)
	if !ok {
		http.Error(w, "missing client identity", http.StatusBadRequest)
		return
	}

	entry, err := handler.sessions.Get(ctx, clientID, role)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			http.Error(w, "no session", http.StatusNotFound)
			return
		}
		log.Errorf("get %s session: %s", role, err)
		span.SetStatus(codes.Error, err.Error())
		http.Error(w, "session read failed", http.StatusInternalServerError)
		return
	}

	entryBytes, err := json.Marshal(entry)
	if err != nil {
		log.Errorf("marshal session entry: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, entryBytes)
}

// HandleHome is the landing stub; RequireRole has already loaded the session.
func (handler *Handler) HandleHome(w http.ResponseWriter, r *http.Request) {
	entry, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	respBytes, err := json.Marshal(map[string]any{
		"message": "welcome, " + entry.Account.Name,
		"account": entry.Account,
	})
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respBytes)
}

func (handler *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "loginHandler.logout")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	clientID, ok := middleware.ClientIDFromContext(ctx)
	if !ok {
		http.Error(w, "missing client identity", http.StatusBadRequest)
		return
	}

	if err := handler.sessions.Clear(ctx, clientID); err != nil {
		log.Errorf("logout, clear sessions: %s", err)
		span.SetStatus(codes.Error, err.Error())
		http.Error(w, "logout failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteTextResponseOK(w, "logged out")
}

func isJSONRequest(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}
