package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/inventario-ledger/pkg/jwt"
)

var (
	tokenUser string
	tokenRole string
	tokenExp  int
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Emite un JWT firmado con JWT_SECRET (integraciones y pruebas)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		switch tokenRole {
		case jwt.RoleAdmin, jwt.RoleBodeguero, jwt.RoleAnalista:
		default:
			return fmt.Errorf("rol %q no válido (admin|bodeguero|analista)", tokenRole)
		}
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		exp := tokenExp
		if exp <= 0 {
			exp = cfg.JWT.Expiration
		}
		tok, err := jwt.Generate(cfg.JWT.Secret, tokenUser, tokenRole, cfg.JWT.Issuer, exp)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUser, "user", "", "id del usuario o integración")
	tokenCmd.Flags().StringVar(&tokenRole, "role", jwt.RoleBodeguero, "admin | bodeguero | analista")
	tokenCmd.Flags().IntVar(&tokenExp, "exp", 0, "minutos de vigencia (0 = JWT_EXPIRATION_MINUTES)")
	_ = tokenCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(tokenCmd)
}
