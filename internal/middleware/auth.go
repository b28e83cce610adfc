package middleware

import (
	"net/http"

	"github.com/mckaywrigley/takeoff-notes-app-complete/internal/auth"
	"github.com/mckaywrigley/takeoff-notes-app-complete/internal/store"
)

const sessionCookieName = "takeoff_session"

// SessionCookieName is exposed for the auth handler which sets and clears
// the cookie.
const SessionCookieName = sessionCookieName

// RequireAuth validates the session cookie and populates AuthContext.
// HTMX-aware: sets an HX-Redirect header instead of a 303 redirect for HTMX
// requests.
func RequireAuth(sessionStore *store.SessionStore, userStore *store.UserStore, profileStore *store.ProfileStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookieName)
			if err != nil || cookie.Value == "" {
				redirectTo(w, r, "/login")
				return
			}

			sess, err := sessionStore.GetByToken(cookie.Value)
			if err != nil || sess == nil {
				redirectTo(w, r, "/login")
				return
			}

			user, err := userStore.GetByID(sess.UserID)
			if err != nil || user == nil {
				redirectTo(w, r, "/login")
				return
			}

			profile, err := profileStore.GetByUserID(user.ID)
			if err != nil || profile == nil {
				redirectTo(w, r, "/signup")
				return
			}

			ac := auth.AuthContext{
				UserID:     user.ID,
				Email:      user.Email,
				Membership: profile.Membership,
				SessionID:  sess.ID,
			}

			ctx := auth.WithAuth(r.Context(), ac)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireMember gates a route behind a paid membership. Free-tier users are
// sent to the pricing page.
func RequireMember(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !auth.IsMember(r.Context()) {
			redirectTo(w, r, "/pricing")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func redirectTo(w http.ResponseWriter, r *http.Request, target string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
