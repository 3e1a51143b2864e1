package actors

import (
	stdctx "context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"videotube/internal/database"
	"videotube/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/rs/zerolog/log"
)

// DefaultOperationTimeout bounds the database work of a single message.
const DefaultOperationTimeout = 5 * time.Second

// Deps are shared by every domain actor.
type Deps struct {
	DB      database.DBAdapter
	Metrics *utils.MetricsCollector
	Timeout time.Duration
}

type operation func(ctx stdctx.Context) (interface{}, error)

// run executes op under its own deadline and responds with either the
// result or an *utils.AppError.
func (d Deps) run(context actor.Context, name string, op operation) {
	start := time.Now()

	timeout := d.Timeout
	if timeout <= 0 {
		timeout = DefaultOperationTimeout
	}
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), timeout)
	defer cancel()

	result, err := op(ctx)
	if d.Metrics != nil {
		d.Metrics.AddOperationLatency(name, time.Since(start))
	}

	if err != nil {
		appErr := utils.AsAppError(err, "Failed to "+strings.ReplaceAll(name, "_", " "))
		if d.Metrics != nil {
			d.Metrics.IncrementErrors(appErr.Code)
		}
		if utils.AppErrorToHTTPStatus(appErr.Code) >= http.StatusInternalServerError {
			log.Error().Err(err).Str("operation", name).Msg("operation failed")
		} else {
			log.Debug().Str("operation", name).Str("code", appErr.Code).Msg(appErr.Message)
		}
		context.Respond(appErr)
		return
	}

	context.Respond(result)
}

// now is truncated to the precision the document store keeps.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func typeName(msg interface{}) string {
	return fmt.Sprintf("%T", msg)
}
