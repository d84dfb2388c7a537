package misc

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/2beens/homerun/internal/activities"
	"github.com/2beens/homerun/internal/auth"
	"github.com/2beens/homerun/internal/middleware"
	"github.com/2beens/homerun/internal/telemetry/metrics"
	"github.com/2beens/homerun/internal/telemetry/tracing"
	"github.com/2beens/homerun/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type LoginResponse struct {
	Token string `json:"token"`
}

type Handler struct {
	versionInfo string
	authService *auth.Service
}

func NewHandler(
	versionInfo string,
	authService *auth.Service,
) *Handler {
	return &Handler{
		versionInfo: versionInfo,
		authService: authService,
	}
}

func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	loginRateLimitAllowedPerMin int,
	metricsManager *metrics.Manager,
) {
	mainRouter.HandleFunc("/", handler.handleRoot).Methods("GET", "POST", "OPTIONS").Name("root")
	mainRouter.HandleFunc("/version", handler.handleGetVersionInfo).Methods("GET").Name("version")
	mainRouter.HandleFunc("/api/config", handler.handleGetConfig).Methods("GET").Name("config")

	loginSubrouter := mainRouter.PathPrefix("/a").Subrouter()
	loginSubrouter.
		HandleFunc("/login", handler.handleLogin).
		Methods("POST", "OPTIONS").Name("login")
	loginSubrouter.
		HandleFunc("/logout", handler.handleLogout).
		Methods("GET", "OPTIONS").Name("logout")

	// rate limit the /login and /logout endpoints to prevent abuse
	loginSubrouter.Use(middleware.RateLimit(rateLimiter, "login", loginRateLimitAllowedPerMin, metricsManager))
	loginSubrouter.Use(middleware.Cors())
}

func (handler *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "I'm OK, thanks ;)")
}

// handleGetConfig serves the enum values clients need to render their
// input forms.
func (handler *Handler) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.config")
	defer span.End()

	type clientConfig struct {
		Disciplines           []activities.Discipline   `json:"disciplines"`
		Terrains              []activities.Terrain      `json:"terrains"`
		PoolTypes             []activities.PoolType     `json:"poolTypes"`
		TrainingTypesRunning  []activities.TrainingType `json:"trainingTypesRunning"`
		TrainingTypesSwimming []activities.TrainingType `json:"trainingTypesSwimming"`
		RaceTypes             []activities.RaceType     `json:"raceTypes"`
		TrackingTypes         []activities.TrackingType `json:"trackingTypes"`
		DistanceTagsRunning   []activities.DistanceTag  `json:"distanceTagsRunning"`
		DistanceTagsSwimming  []activities.DistanceTag  `json:"distanceTagsSwimming"`
	}

	cfg := clientConfig{
		Disciplines: []activities.Discipline{
			activities.DisciplineRunning, activities.DisciplineSwimming,
		},
		Terrains: []activities.Terrain{
			activities.TerrainRoad, activities.TerrainMixed,
			activities.TerrainTrail, activities.TerrainTreadmill,
		},
		PoolTypes: []activities.PoolType{
			activities.Pool25m, activities.Pool50m, activities.PoolOpenWaters,
		},
		TrainingTypesRunning: []activities.TrainingType{
			activities.TrainingTypeBase, activities.TrainingTypeHighEffort,
			activities.TrainingTypeInterval, activities.TrainingTypeElevationGain,
		},
		TrainingTypesSwimming: []activities.TrainingType{
			activities.TrainingTypeBreaststroke, activities.TrainingTypeCrawl,
			activities.TrainingTypeMixedStroke,
		},
		RaceTypes: []activities.RaceType{
			activities.RaceTypeBase, activities.RaceTypeHighEffort, activities.RaceTypeFun,
		},
		TrackingTypes: []activities.TrackingType{
			activities.TrackingTypeOfficial, activities.TrackingTypePersonal,
			activities.TrackingTypeSplit,
		},
		DistanceTagsRunning:  activities.DistanceTagsFor(activities.DisciplineRunning),
		DistanceTagsSwimming: activities.DistanceTagsFor(activities.DisciplineSwimming),
	}

	cfgBytes, err := json.Marshal(cfg)
	if err != nil {
		log.Errorf("marshal client config: %s", err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, cfgBytes)
}

func (handler *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.login")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	var credentials auth.Credentials
	if r.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
			log.Errorf("login, unmarshal json params: %s", err)
			http.Error(w, "login failed", http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			log.Errorf("login failed, parse form error: %s", err)
			http.Error(w, "parse form error", http.StatusInternalServerError)
			return
		}
		credentials = auth.Credentials{
			Username: r.Form.Get("username"),
			Password: r.Form.Get("password"),
		}
	}

	if credentials.Username == "" {
		http.Error(w, "error, username empty", http.StatusBadRequest)
		return
	}
	if credentials.Password == "" {
		http.Error(w, "error, password empty", http.StatusBadRequest)
		return
	}

	token, err := handler.authService.Login(r.Context(), credentials, time.Now())
	if err != nil {
		if errors.Is(err, auth.ErrWrongUsername) || errors.Is(err, auth.ErrWrongPassword) {
			log.Tracef("failed login attempt for user: %s", credentials.Username)
			http.Error(w, "error, wrong credentials", http.StatusBadRequest)
			return
		}
		log.Errorf("login failed, generate token error: %s", err)
		http.Error(w, "generate token error", http.StatusInternalServerError)
		return
	}

	log.Trace("new login success")
	pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{"token": "%s"}`, token))
}

func (handler *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.logout")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	authToken := r.Header.Get("X-HOMERUN-TOKEN")
	if authToken == "" {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	loggedOut, err := handler.authService.Logout(r.Context(), authToken)
	if err != nil {
		log.Tracef("[failed logout] => %s: %s", r.URL.Path, err)
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}
	if !loggedOut {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	log.Printf("logout for [%s] success", authToken)
	pkg.WriteTextResponseOK(w, "logged-out")
}

func (handler *Handler) handleGetVersionInfo(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, handler.versionInfo)
}
