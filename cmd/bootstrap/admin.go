package bootstrap

import (
	"context"
	"log/slog"

	"guesthouse-booking/internal/domain/user"
	"guesthouse-booking/internal/infra"
	"guesthouse-booking/internal/pkg/config"
	"guesthouse-booking/internal/pkg/errs"
	"guesthouse-booking/internal/pkg/password"
	"guesthouse-booking/internal/usecase/shared"

	"go.uber.org/fx"
)

var AdminSeedModule = fx.Module("adminseed",
	fx.Invoke(RegisterAdminSeed),
)

// RegisterAdminSeed ensures the bootstrap administrator account exists on
// startup. Credentials come from required environment variables; an existing
// account with the configured email is left untouched.
func RegisterAdminSeed(lc fx.Lifecycle, unit shared.UnitOfWork, cfg config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return EnsureAdminUser(ctx, unit, cfg.Admin)
		},
	})
}

func EnsureAdminUser(ctx context.Context, unit shared.UnitOfWork, cfg config.AdminConfig) error {
	email, err := user.NewEmail(cfg.Email)
	if err != nil {
		return errs.Wrap(err, "invalid ADMIN_EMAIL")
	}

	if _, err := unit.CommandReads().UserByEmail(ctx, email.Value()); err == nil {
		slog.Info("admin account already present", "email", email.Value())
		return nil
	} else if !infra.IsKind(err, infra.KindNotFound) {
		return errs.Wrap(err, "failed to look up admin account")
	}

	hash, err := password.HashPassword(cfg.Password)
	if err != nil {
		return errs.Wrap(err, "failed to hash admin password")
	}

	admin := user.NewUser(email, hash, cfg.Name, user.Phone{}, user.RoleAdmin)

	err = unit.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		_, createErr := tx.Users().Create(ctx, tx.DB(), admin)
		// Lost a race against another instance seeding the same account.
		if createErr != nil && !infra.IsKind(createErr, infra.KindDuplicateKey) {
			return createErr
		}
		return nil
	})
	if err != nil {
		return errs.Wrap(err, "failed to create admin account")
	}

	slog.Info("admin account created", "email", email.Value())
	return nil
}
