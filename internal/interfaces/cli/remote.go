package cli

import (
	"context"
	"fmt"

	app "github.com/turtacn/ReactionLab/internal/application/reaction"
	"github.com/turtacn/ReactionLab/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ReactionLab/pkg/client"
	"github.com/turtacn/ReactionLab/pkg/errors"
	rtypes "github.com/turtacn/ReactionLab/pkg/types/reaction"
)

// clientLogger adapts logging.Logger to the SDK's printf-style Logger.
type clientLogger struct{ l logging.Logger }

func (c clientLogger) Debugf(format string, args ...interface{}) {
	c.l.Debug(fmt.Sprintf(format, args...))
}
func (c clientLogger) Infof(format string, args ...interface{}) {
	c.l.Info(fmt.Sprintf(format, args...))
}
func (c clientLogger) Errorf(format string, args ...interface{}) {
	c.l.Error(fmt.Sprintf(format, args...))
}

func newRemoteClient(cliCtx *CLIContext) (*client.Client, error) {
	c, err := client.NewClient(cliCtx.Server,
		client.WithLogger(clientLogger{cliCtx.Logger.Named("client")}),
		client.WithUserAgent("reactlab-cli/"+Version),
	)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeValidation, "invalid --server")
	}
	return c, nil
}

// remotePredict runs in through a server and reports a rejected prediction
// as an unsuccessful output, the same way the local service does.
func remotePredict(ctx context.Context, cliCtx *CLIContext, in app.PredictInput) (*app.PredictOutput, error) {
	c, err := newRemoteClient(cliCtx)
	if err != nil {
		return nil, err
	}
	resp, err := c.Predict(ctx, rtypes.PredictRequest{
		Compound:     in.Compound,
		Catalyst:     in.Catalyst,
		ReactionType: in.ReactionType,
		SaveToDB:     in.SaveToDB,
	})
	var pe *client.PredictionError
	if errors.As(err, &pe) {
		return &app.PredictOutput{Error: pe.Message, Code: errors.ErrorCode(pe.Code)}, nil
	}
	if err != nil {
		return nil, err
	}
	return &app.PredictOutput{
		Success:      true,
		Reactant:     resp.Reactant,
		ReactantSVG:  resp.ReactantSVG,
		Catalyst:     resp.Catalyst,
		ReactionType: resp.ReactionType,
		Product:      resp.Product,
		ProductSVG:   resp.ProductSVG,
		Details:      resp.ReactionDetails,
	}, nil
}

//Personal.AI order the ending
