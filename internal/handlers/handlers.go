package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"videotube/internal/engine"
	"videotube/internal/middleware"
	"videotube/internal/models"
	"videotube/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// futureGrace keeps the future alive slightly longer than the actor's own
// deadline, so the actor reports its timeout before the future expires.
const futureGrace = time.Second

// Server holds all server dependencies, including the actor system and engine
type Server struct {
	System         *actor.ActorSystem
	Context        *actor.RootContext
	Engine         *engine.Engine
	Metrics        *utils.MetricsCollector
	Auth           *middleware.Authenticator
	RequestTimeout time.Duration
	UploadTimeout  time.Duration
	MaxUploadBytes int64

	validate *validator.Validate
}

// Options carries the tunables of NewServer.
type Options struct {
	RequestTimeout time.Duration
	UploadTimeout  time.Duration
	MaxUploadBytes int64
}

// NewServer creates a new Server instance with the given components
func NewServer(
	system *actor.ActorSystem,
	engine *engine.Engine,
	metrics *utils.MetricsCollector,
	auth *middleware.Authenticator,
	opts Options,
) *Server {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 5 * time.Second
	}
	if opts.UploadTimeout <= 0 {
		opts.UploadTimeout = opts.RequestTimeout
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 512 << 20
	}
	return &Server{
		System:         system,
		Context:        system.Root,
		Engine:         engine,
		Metrics:        metrics,
		Auth:           auth,
		RequestTimeout: opts.RequestTimeout + futureGrace,
		UploadTimeout:  opts.UploadTimeout + futureGrace,
		MaxUploadBytes: opts.MaxUploadBytes,
		validate:       validator.New(validator.WithRequiredStructEnabled()),
	}
}

// ask sends msg to pid and waits for the reply. Actor errors come back as
// *utils.AppError; an expired future becomes an ACTOR_TIMEOUT error.
func (s *Server) ask(pid *actor.PID, msg interface{}) (interface{}, error) {
	return s.askWithin(pid, msg, s.RequestTimeout)
}

func (s *Server) askWithin(pid *actor.PID, msg interface{}, timeout time.Duration) (interface{}, error) {
	result, err := s.Context.RequestFuture(pid, msg, timeout).Result()
	if err != nil {
		log.Error().Err(err).Str("message", fmt.Sprintf("%T", msg)).Msg("actor request failed")
		if s.Metrics != nil {
			s.Metrics.IncrementErrors(utils.ErrActorTimeout)
		}
		return nil, utils.NewActorTimeoutError(pid.GetId())
	}
	if appErr, ok := result.(*utils.AppError); ok {
		return nil, appErr
	}
	return result, nil
}

// reply asks pid and writes either the success envelope or the error envelope.
func (s *Server) reply(w http.ResponseWriter, pid *actor.PID, msg interface{}, status int, message string) {
	result, err := s.ask(pid, msg)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteSuccess(w, status, result, message)
}

// currentUser returns the authenticated user id placed by the JWT middleware.
func currentUser(r *http.Request) (primitive.ObjectID, error) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok || userID.IsZero() {
		return primitive.NilObjectID, utils.NewUnauthorizedError("missing user identity")
	}
	return userID, nil
}

// pathID parses the named chi URL parameter as an ObjectID.
func pathID(r *http.Request, param, field string) (primitive.ObjectID, error) {
	return utils.ParseObjectID(chi.URLParam(r, param), field)
}

// decodeBody decodes a JSON body into dst and validates it.
func (s *Server) decodeBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.Warn().Err(err).Str("path", r.URL.Path).Msg("invalid request body")
		return utils.NewValidationError("Invalid request body")
	}
	return s.validateStruct(dst)
}

// validateStruct runs the validator tags on v and turns failures into a
// validation error listing one message per field.
func (s *Server) validateStruct(v interface{}) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return utils.NewValidationError("Invalid request", err.Error())
	}
	details := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, translateFieldError(fe))
	}
	return utils.NewValidationError(strings.Join(details, "; "), details...)
}

func translateFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

// pageFromQuery reads page and limit, coercing bad values to the defaults.
func pageFromQuery(r *http.Request) models.Page {
	q := r.URL.Query()
	return models.NewPage(q.Get("page"), q.Get("limit"))
}
