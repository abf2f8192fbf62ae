package cmd

import (
	"fmt"

	internalApp "github.com/haierkeys/fast-note-pdf-link-service/internal/app"
	pkgapp "github.com/haierkeys/fast-note-pdf-link-service/pkg/app"

	"github.com/spf13/cobra"
)

type tokenFlags struct {
	config   string
	uid      int64
	nickname string
}

// mintToken 使用配置中的密钥签发用户 Token，用于本地调试
func mintToken(f *tokenFlags) (string, error) {
	cfg, _, err := internalApp.LoadConfig(f.config)
	if err != nil {
		return "", err
	}
	if f.uid <= 0 {
		return "", fmt.Errorf("uid must be positive")
	}
	tm := pkgapp.NewTokenManager(pkgapp.TokenConfig{
		SecretKey: cfg.Security.AuthTokenKey,
		Issuer:    pkgapp.DefaultTokenIssuer,
		Expiry:    cfg.GetTokenExpiry(),
	})
	return tm.Generate(f.uid, f.nickname, "127.0.0.1")
}

func init() {
	f := new(tokenFlags)

	tokenCmd := &cobra.Command{
		Use:   "token --uid N [-c config_file]",
		Short: "Mint a user token for local testing // 签发本地测试用的用户 Token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.config == "" {
				f.config = findConfig()
			}
			if f.config == "" {
				return fmt.Errorf("config file not found")
			}
			token, err := mintToken(f)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	fs := tokenCmd.Flags()
	fs.StringVarP(&f.config, "config", "c", "", "config file")
	fs.Int64Var(&f.uid, "uid", 0, "user id")
	fs.StringVar(&f.nickname, "nickname", "", "nickname carried in the token")

	rootCmd.AddCommand(tokenCmd)
}
