package main

import (
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	zerologlog "github.com/rs/zerolog/log"
	qrcode "github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/AdamJH-ai/handleys-fun-factory/internal/config"
	"github.com/AdamJH-ai/handleys-fun-factory/internal/game"
	"github.com/AdamJH-ai/handleys-fun-factory/internal/questions"
	"github.com/AdamJH-ai/handleys-fun-factory/internal/ws"
)

const version = "1.0.0"

func newCmd(cfg *config.Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("HFF")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "funfactory",
		Short:         "A party trivia server: one big screen, up to eight phones, ten mini-games.",
		Args:          cobra.ExactArgs(0),
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Port < 1 || cfg.Port > 65535 {
				return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", cfg.Port)
			}
			return serve(cfg)
		},
	}

	fs := cmd.Flags()
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	def := config.Default()
	fs.StringVarP(&cfg.Bind, "bind", "b", def.Bind, "address to bind to (env: HFF_BIND)")
	fs.IntVarP(&cfg.Port, "port", "p", def.Port, "port to listen on (env: HFF_PORT)")
	fs.StringVarP(&cfg.DataDir, "data-dir", "d", def.DataDir, "directory holding the question bank files (env: HFF_DATA_DIR)")
	fs.IntVar(&cfg.RoundsTotal, "rounds", def.RoundsTotal, "rounds per game (env: HFF_ROUNDS)")
	fs.IntVar(&cfg.MaxPlayers, "max-players", def.MaxPlayers, "maximum connected players (env: HFF_MAX_PLAYERS)")
	fs.IntVar(&cfg.TargetTurns, "target-turns", def.TargetTurns, "target turns per round (env: HFF_TARGET_TURNS)")
	fs.StringVar(&cfg.ExportFile, "export-file", "", "append finished game results to this file (env: HFF_EXPORT_FILE)")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", false, "display additional output (env: HFF_VERBOSE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("funfactory v{{.Version}}\n")

	return cmd
}

func serve(cfg *config.Config) error {
	zerolog.TimeFieldFormat = time.RFC3339
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	zerologlog.Logger = zerologlog.Output(cw)
	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/socket.io") {
			return
		}
		zerologlog.Info().
			Str("path", path).
			Int("status", c.Writer.Status()).
			Dur("dur", time.Since(start)).
			Msg("http")
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC()})
	})

	// QR code pointing phones at the join page, for the main screen to show.
	r.GET("/join/qr", func(c *gin.Context) {
		joinURL := fmt.Sprintf("http://%s/", c.Request.Host)
		png, err := qrcode.Encode(joinURL, qrcode.Medium, 256)
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Data(http.StatusOK, "image/png", png)
	})

	bank := questions.Load(cfg.DataDir)

	gameCfg := game.DefaultConfig()
	gameCfg.RoundsTotal = cfg.RoundsTotal
	gameCfg.MaxPlayers = cfg.MaxPlayers
	gameCfg.TargetTurns = cfg.TargetTurns
	gameCfg.ExportFile = cfg.ExportFile

	sock := ws.New()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	g := game.New(gameCfg, bank, sock, game.NewScheduler(), rng)
	sock.Attach(r, g)

	go func() {
		if err := sock.Serve(); err != nil {
			zerologlog.Error().Err(err).Msg("socket server stopped")
		}
	}()
	defer sock.Close()

	addr := fmt.Sprintf("%s:%d", cfg.Bind, cfg.Port)
	zerologlog.Info().Str("addr", addr).Msg("listening")
	return r.Run(addr)
}

func main() {
	cfg := config.Default()
	if err := newCmd(&cfg).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
