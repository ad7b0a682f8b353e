package main

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vfg2006/campaign-sync/internal/config"
	"github.com/vfg2006/campaign-sync/internal/domain"
	"github.com/vfg2006/campaign-sync/internal/usecases/authenticating"
	"github.com/vfg2006/campaign-sync/pkg/log"
)

// Emite o token Bearer usado na API de controle (POST /v1/sync, GET /v1/sync/status)
func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		email string
		role  string
		ttl   time.Duration
	)

	cmd := &cobra.Command{
		Use:          "token",
		Short:        "assina um token HS256 com o AUTH_SECRET configurado",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Configure("warn")

			cfg, err := config.NewConfig()
			if err != nil {
				return fmt.Errorf("erro ao carregar configuração: %w", err)
			}

			token, err := authenticating.NewService(cfg).GenerateToken(email, role, ttl)
			if err != nil {
				return fmt.Errorf("erro ao gerar token: %w", err)
			}

			logrus.WithFields(logrus.Fields{
				"role": role,
				"ttl":  ttl.String(),
			}).Debug("Token emitido")

			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email do operador")
	cmd.Flags().StringVar(&role, "role", domain.RoleAdmin, "papel gravado nas claims")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "validade do token")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}
