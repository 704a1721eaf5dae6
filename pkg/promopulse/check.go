package promopulse

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/promopulse/promopulse/pkg/store"
	"github.com/promopulse/promopulse/pkg/store/failover"
	"github.com/promopulse/promopulse/pkg/store/remote"
)

// Check connects to the configured SurrealDB backend and runs a probe
// read. On failure it reports the classified kind, which is exactly
// what the failover layer would act on at runtime.
func Check(ctx context.Context, config *Config, log zerolog.Logger) error {
	if config.LocalOnly {
		return fmt.Errorf("check needs a remote store; drop -local-only")
	}

	probe := func() error {
		ctx, cancel := context.WithTimeout(ctx, failover.DefaultTimeout)
		defer cancel()

		rs, err := remote.New(ctx, config.RemoteConfig(), log)
		if err != nil {
			return err
		}
		defer rs.Close()

		promoters, err := rs.ListPromoters(ctx)
		if err != nil {
			return err
		}
		log.Info().Int("promoters", len(promoters)).Msg("remote store reachable")
		return nil
	}

	if err := probe(); err != nil {
		kind := store.KindOther
		var re *store.RemoteError
		if errors.As(err, &re) {
			kind = re.Kind
		}
		log.Error().Stringer("kind", kind).Bool("fatal", kind.Fatal()).Err(err).
			Msg("remote store probe failed")
		return err
	}
	return nil
}
