package api

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"theranova/backend/internal/dataset"
	"theranova/backend/internal/scoring"
)

// analysisIDHeader carries the analysis id of a scored request.
const analysisIDHeader = "X-Analysis-Id"

// Config defines server dependencies.
type Config struct {
	Dataset *dataset.Dataset
	// NewAnalysisID overrides analysis id generation; nil uses random UUIDs.
	NewAnalysisID func() string
}

// Server wires HTTP handlers with the scorer.
type Server struct {
	scorer        *scoring.Scorer
	feed          *AnalysisNotifier
	newAnalysisID func() string
}

// NewServer constructs the API server.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Dataset == nil {
		return nil, errors.New("dataset required")
	}
	newID := cfg.NewAnalysisID
	if newID == nil {
		newID = NewAnalysisID
	}
	logrus.WithFields(logrus.Fields{
		"trials":      len(cfg.Dataset.Trials()),
		"competitors": len(cfg.Dataset.Competitors()),
	}).Info("scorer dataset ready")
	return &Server{
		scorer:        scoring.NewScorer(cfg.Dataset),
		feed:          NewAnalysisNotifier(),
		newAnalysisID: newID,
	}, nil
}

// Feed exposes the analysis notifier.
func (s *Server) Feed() *AnalysisNotifier {
	return s.feed
}

// Router configures gin routes.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()
	// Unknown paths, trailing slashes included, go to NoRoute.
	r.RedirectTrailingSlash = false

	r.Use(permissiveCORS())
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = []string{"*"}
	corsCfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsCfg.ExposeHeaders = []string{analysisIDHeader}
	r.Use(cors.New(corsCfg))

	r.GET("/health", s.handleHealth)
	r.POST("/score", s.handleScore)
	r.GET("/score/stream", s.handleScoreStream)
	r.NoRoute(func(c *gin.Context) {
		s.renderError(c, http.StatusNotFound, errNotFound)
	})

	return r
}

// permissiveCORS stamps allow-all headers on every response, with or without
// an Origin header, and answers every OPTIONS request with an empty 200.
func permissiveCORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "*")
		c.Header("Access-Control-Allow-Headers", "*")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleScore(c *gin.Context) {
	start := time.Now()

	var req ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, http.StatusBadRequest, bindError(err))
		return
	}
	if err := req.Validate(); err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}

	result := s.scorer.Compute(req.Molecule, req.Disease)
	resp := ScoreResponseFromResult(result, s.newAnalysisID())
	c.Header(analysisIDHeader, resp.AnalysisID)

	logrus.WithFields(logrus.Fields{
		"analysis_id": resp.AnalysisID,
		"molecule":    req.Molecule,
		"disease":     req.Disease,
		"score":       result.Score,
		"trials":      len(result.Trials),
		"trial_bonus": result.Breakdown.Trials,
		"phase_bonus": result.Breakdown.Phase,
		"penalty":     result.Breakdown.Competitors,
		"signals":     result.Breakdown.Signals,
		"duration":    time.Since(start),
	}).Debug("scored repurposing candidate")

	s.feed.Broadcast(AnalysisEventFromResponse(resp))
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleScoreStream(c *gin.Context) {
	if !websocket.IsWebSocketUpgrade(c.Request) {
		s.renderError(c, http.StatusBadRequest, errUpgradeRequired)
		return
	}
	upgrader := websocket.Upgrader{
		HandshakeTimeout: 5 * time.Second,
		CheckOrigin:      func(r *http.Request) bool { return true },
		Error: func(_ http.ResponseWriter, _ *http.Request, status int, reason error) {
			s.renderError(c, status, reason)
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("upgrade websocket")
		return
	}

	client := s.feed.Register(conn)
	logrus.WithField("remote", conn.RemoteAddr().String()).Info("analysis feed connected")
	defer s.feed.Unregister(client)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithField("remote", conn.RemoteAddr().String()).Info("analysis feed closed")
			} else {
				logrus.WithError(err).Warn("analysis feed unexpected close")
			}
			break
		}
	}
}

// bindError maps decoding failures onto the validation messages clients see
// for the same field.
func bindError(err error) error {
	if errors.Is(err, io.EOF) {
		return errBodyRequired
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		switch typeErr.Field {
		case "molecule":
			return errMoleculeRequired
		case "disease":
			return errDiseaseRequired
		default:
			return errBodyRequired
		}
	}
	return err
}

func (s *Server) renderError(c *gin.Context, status int, err error) {
	c.JSON(status, ErrorResponse{Error: err.Error()})
}

// NewAnalysisID returns a random UUIDv4 as 32 lowercase hex characters.
func NewAnalysisID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}
