// Package demosite serves a local replica of the pages and element contract
// the suite checks, so runs and tests work without the public site.
package demosite

import (
	"bytes"
	"fmt"
	"html/template"
	"math/rand/v2"
	"net/http"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	Username = "tomsmith"
	Password = "SuperSecretPassword!"

	sessionCookie = "internetcheck_session"
	maxUploadSize = 10 << 20
)

type flash struct {
	Kind string // success or error
	Text string
}

type session struct {
	user      string
	flash     *flash
	challenge string
}

// Server is the demo site
type Server struct {
	router chi.Router
	pages  map[string]*template.Template
	files  map[string][]byte
	log    zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*session
}

// New builds the site with its routes.
func New(log zerolog.Logger) *Server {
	s := &Server{
		pages:    parsePages(),
		log:      log,
		sessions: make(map[string]*session),
		files: map[string][]byte{
			"some-file.txt":      []byte("Hello from the-internet replica.\n"),
			"internetcheck.json": []byte(`{"site":"the-internet","replica":true}` + "\n"),
		},
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLog)

	r.Get("/", s.render("home"))
	r.Get("/login", s.render("login"))
	r.Post("/authenticate", s.authenticate)
	r.Get("/secure", s.secure)
	r.Get("/logout", s.logout)
	r.Get("/checkboxes", s.render("checkboxes"))
	r.Get("/broken_images", s.render("broken_images"))
	r.Get("/dropdown", s.render("dropdown"))
	r.Get("/dynamic_content", s.dynamicContent)
	r.Get("/dynamic_controls", s.render("dynamic_controls"))
	r.Get("/entry_ad", s.render("entry_ad"))
	r.Get("/upload", s.render("upload"))
	r.Post("/upload", s.upload)
	r.Get("/download", s.downloadList)
	r.Get("/download/{file}", s.download)
	r.Get("/captcha", s.captchaForm)
	r.Post("/captcha", s.captchaSubmit)
	r.NotFound(s.notFound)

	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// lookup returns the caller's session, or nil when it has none.
func (s *Server) lookup(r *http.Request) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.find(r)
}

func (s *Server) find(r *http.Request) *session {
	for _, c := range r.Cookies() {
		if c.Name != sessionCookie {
			continue
		}
		if sess, ok := s.sessions[c.Value]; ok {
			return sess
		}
	}
	return nil
}

// session returns the caller's session, creating one (and its cookie) when
// there is state to keep.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess := s.find(r); sess != nil {
		return sess
	}

	token := uuid.NewString()
	sess := &session{}
	s.sessions[token] = sess
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	// later lookups in the same request must see the new session
	r.AddCookie(&http.Cookie{Name: sessionCookie, Value: token})
	return sess
}

// Sessions returns how many sessions are held.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// redirectWithFlash stores a message shown by the next rendered page.
func (s *Server) redirectWithFlash(w http.ResponseWriter, r *http.Request, to, kind, text string) {
	sess := s.session(w, r)
	s.mu.Lock()
	sess.flash = &flash{Kind: kind, Text: text}
	s.mu.Unlock()
	http.Redirect(w, r, to, http.StatusFound)
}

func (s *Server) takeFlash(sess *session) *flash {
	if sess == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	f := sess.flash
	sess.flash = nil
	return f
}

func (s *Server) write(w http.ResponseWriter, r *http.Request, status int, name string, v view) {
	v.Flash = s.takeFlash(s.lookup(r))

	var buf bytes.Buffer
	if err := s.pages[name].ExecuteTemplate(&buf, "layout", v); err != nil {
		s.log.Error().Err(err).Str("page", name).Msg("failed to render page")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) render(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.write(w, r, http.StatusOK, name, view{})
	}
}

func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	switch {
	case r.PostForm.Get("username") != Username:
		s.redirectWithFlash(w, r, "/login", "error", "Your username is invalid!")
	case r.PostForm.Get("password") != Password:
		s.redirectWithFlash(w, r, "/login", "error", "Your password is invalid!")
	default:
		sess := s.session(w, r)
		s.mu.Lock()
		sess.user = Username
		s.mu.Unlock()
		s.redirectWithFlash(w, r, "/secure", "success", "You logged into a secure area!")
	}
}

func (s *Server) secure(w http.ResponseWriter, r *http.Request) {
	var user string
	if sess := s.lookup(r); sess != nil {
		s.mu.Lock()
		user = sess.user
		s.mu.Unlock()
	}

	if user == "" {
		s.redirectWithFlash(w, r, "/login", "error", "You must login to view the secure area!")
		return
	}
	s.write(w, r, http.StatusOK, "secure", view{})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if sess := s.lookup(r); sess != nil {
		s.mu.Lock()
		sess.user = ""
		s.mu.Unlock()
	}
	s.redirectWithFlash(w, r, "/login", "success", "You logged out of the secure area!")
}

var loremWords = strings.Fields("accusantium doloremque laudantium totam rem aperiam eaque ipsa quae ab illo inventore veritatis quasi architecto beatae vitae dicta sunt explicabo nemo enim ipsam voluptatem quia voluptas sit aspernatur aut odit fugit")

func (s *Server) dynamicContent(w http.ResponseWriter, r *http.Request) {
	rows := make([]string, 3)
	for i := range rows {
		words := make([]string, 12+rand.IntN(12))
		for j := range words {
			words[j] = loremWords[rand.IntN(len(loremWords))]
		}
		rows[i] = strings.ToUpper(words[0][:1]) + strings.Join(words, " ")[1:] + "."
	}
	s.write(w, r, http.StatusOK, "dynamic_content", view{Rows: rows})
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	file.Close()

	s.write(w, r, http.StatusOK, "uploaded", view{Uploaded: path.Base(header.Filename)})
}

func (s *Server) fileNames() []string {
	names := make([]string, 0, len(s.files))
	for name := range s.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Server) downloadList(w http.ResponseWriter, r *http.Request) {
	s.write(w, r, http.StatusOK, "download", view{Files: s.fileNames()})
}

func (s *Server) download(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "file")
	data, ok := s.files[name]
	if !ok {
		s.notFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, _ = w.Write(data)
}

const challengeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func newChallenge() string {
	b := make([]byte, 6)
	for i := range b {
		b[i] = challengeAlphabet[rand.IntN(len(challengeAlphabet))]
	}
	return string(b)
}

func (s *Server) captchaForm(w http.ResponseWriter, r *http.Request) {
	s.writeCaptcha(w, r, http.StatusOK)
}

func (s *Server) writeCaptcha(w http.ResponseWriter, r *http.Request, status int) {
	sess := s.session(w, r)
	challenge := newChallenge()
	s.mu.Lock()
	sess.challenge = challenge
	s.mu.Unlock()
	s.write(w, r, status, "captcha", view{Challenge: challenge})
}

func (s *Server) captchaSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	sess := s.session(w, r)
	s.mu.Lock()
	expected := sess.challenge
	sess.challenge = ""
	s.mu.Unlock()

	answer := strings.ToUpper(strings.TrimSpace(r.PostForm.Get("captcha")))
	if expected == "" || answer != expected {
		s.mu.Lock()
		sess.flash = &flash{Kind: "error", Text: "Captcha verification failed!"}
		s.mu.Unlock()
		s.writeCaptcha(w, r, http.StatusUnprocessableEntity)
		return
	}

	if r.PostForm.Get("username") != Username || r.PostForm.Get("password") != Password {
		s.redirectWithFlash(w, r, "/captcha", "error", "Your username is invalid!")
		return
	}

	s.mu.Lock()
	sess.user = Username
	s.mu.Unlock()
	s.redirectWithFlash(w, r, "/secure", "success", "You logged into a secure area!")
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.write(w, r, http.StatusNotFound, "not_found", view{})
}
