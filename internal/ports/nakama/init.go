package nakama

import (
	"context"
	"database/sql"

	"github.com/heroiclabs/nakama-common/runtime"

	"domino/internal/config"
)

// Registrar is the part of runtime.Initializer the module uses.
type Registrar interface {
	RegisterRpc(id string, fn func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error)) error
	RegisterMatch(name string, fn func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error)) error
}

// InitModule wires RPCs and match handlers for Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	return initModule(ctx, logger, initializer)
}

func initModule(ctx context.Context, logger runtime.Logger, initializer Registrar) error {
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	if err := config.LoadGameConfig(env); err != nil {
		logger.Error("InitModule: Invalid game config: %v", err)
		return err
	}

	if err := RegisterRPCs(initializer); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchNameDomino, NewMatch); err != nil {
		return err
	}

	cfg := config.GetGameConfig()
	logger.Info("Domino Go module loaded (hand_size=%d, draw_when_blocked=%v, autoplay=%v).", cfg.HandSize, cfg.DrawWhenBlocked, cfg.Autoplay)
	return nil
}
