package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/lu-zhengda/mailroom/internal/app"
	"github.com/lu-zhengda/mailroom/internal/auth"
	"github.com/lu-zhengda/mailroom/internal/config"
	"github.com/lu-zhengda/mailroom/internal/domain"
	"github.com/lu-zhengda/mailroom/internal/store"
	"github.com/lu-zhengda/mailroom/internal/store/sqlite"
	"github.com/lu-zhengda/mailroom/internal/tui"
	"github.com/spf13/cobra"
)

var (
	// version is set via ldflags at build time.
	version = "dev"
	cfgFile string

	// jsonFlag enables JSON output for all commands.
	jsonFlag bool

	// accountFlag picks the account commands act on.
	accountFlag string

	// newTokenStore is replaced in tests.
	newTokenStore = func() store.TokenStore { return store.NewKeyringTokenStore() }
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "mailroom",
		Short:   "Terminal webmail client",
		Long:    "A terminal webmail client with multiple accounts, labels and drafts.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			if shell, _ := cmd.Flags().GetString("generate-completion"); shell != "" {
				switch shell {
				case "bash":
					return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
				case "zsh":
					return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
				case "fish":
					return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
				default:
					return fmt.Errorf("unsupported shell: %s (use bash, zsh, or fish)", shell)
				}
			}
			return runTUI(cmd.Context())
		},
	}
	root.SetVersionTemplate(fmt.Sprintf("mailroom %s\n", version))
	root.CompletionOptions.DisableDefaultCmd = true
	root.SilenceUsage = true
	root.Flags().String("generate-completion", "", "Generate shell completion (bash, zsh, fish)")
	root.Flags().MarkHidden("generate-completion")
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	root.PersistentFlags().BoolVar(&jsonFlag, "json", false, "output in JSON format")
	root.PersistentFlags().StringVar(&accountFlag, "account", "", "account ID to use (defaults to the last one used)")
	root.AddCommand(newAuthCmd())
	root.AddCommand(newAccountCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newReadCmd())
	root.AddCommand(newCountsCmd())
	root.AddCommand(newArchiveCmd())
	root.AddCommand(newTrashCmd())
	root.AddCommand(newRestoreCmd())
	root.AddCommand(newJunkCmd())
	root.AddCommand(newUnreadCmd())
	root.AddCommand(newStarCmd())
	root.AddCommand(newReplyCmd())
	root.AddCommand(newForwardCmd())
	root.AddCommand(newDraftCmd())
	root.AddCommand(newLabelCmd())
	root.AddCommand(newSendCmd())
	root.AddCommand(newSentCmd())
	root.AddCommand(newProfileCmd())
	root.AddCommand(newSettingsCmd())
	root.AddCommand(newGmailCmd())
	root.AddCommand(newEnvCheckCmd())
	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// runTUI opens the session for the signed-in user and hands its
// controller to the terminal UI. The mailbox is saved when the UI exits.
func runTUI(ctx context.Context) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	sess, err := e.session(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	// Log lines would tear the alternate screen, so they go to a file.
	restore := redirectLog(filepath.Join(config.DataDir(), "mailroom.log"))
	defer restore()

	opts := tui.Options{
		Layout: app.LoadLayout(ctx, e.db),
		SaveLayout: func(l app.Layout) error {
			return app.SaveLayout(context.Background(), e.db, l)
		},
	}
	if svc, err := e.sendService(ctx, sess); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	} else {
		opts.Sender = svc
	}

	runErr := tui.Run(sess.Controller(), opts)
	if err := sess.Save(ctx); err != nil {
		return err
	}
	return runErr
}

// redirectLog sends the standard logger to path until the returned func
// is called. Output is discarded when the file cannot be opened.
func redirectLog(path string) func() {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		log.SetOutput(io.Discard)
		return func() { log.SetOutput(os.Stderr) }
	}
	log.SetOutput(f)
	return func() {
		log.SetOutput(os.Stderr)
		f.Close()
	}
}

// openDB creates the data directory and opens the SQLite database.
func openDB() (*sqlite.DB, error) {
	dataDir := config.DataDir()
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "mailroom.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// loadConfig loads the configuration file and overlays the environment.
func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		path = filepath.Join(config.ConfigDir(), "config.toml")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// env bundles what every command needs: config, database, token store and
// the identity provider.
type env struct {
	cfg    *config.Config
	db     *sqlite.DB
	tokens store.TokenStore
	auth   auth.Provider
}

func openEnv() (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	tokens := newTokenStore()
	provider, err := auth.New(cfg, tokens)
	if err != nil {
		return nil, err
	}
	db, err := openDB()
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, db: db, tokens: tokens, auth: provider}, nil
}

func (e *env) Close() {
	e.db.Close()
}

// session opens the signed-in user's mailbox and applies --account.
func (e *env) session(ctx context.Context) (*app.Session, error) {
	sess, err := app.Open(ctx, e.cfg, e.db, e.auth)
	if errors.Is(err, app.ErrSignedOut) {
		return nil, fmt.Errorf("not signed in; run 'mailroom auth signin' first")
	}
	if err != nil {
		return nil, err
	}
	if accountFlag != "" && !sess.Controller().SwitchAccount(accountFlag) {
		sess.Close()
		return nil, fmt.Errorf("account %q not found", accountFlag)
	}
	return sess, nil
}

// sendService builds the outbound transport configured for this install.
func (e *env) sendService(ctx context.Context, sess *app.Session) (*app.SendService, error) {
	sender, err := app.NewSender(e.cfg, e.tokens)
	if err != nil {
		return nil, fmt.Errorf("failed to set up mail transport: %w", err)
	}
	user := sess.User()
	from := domain.Address{Name: sess.Profile(ctx).FullName, Email: e.cfg.Transport.From}
	if from.Email == "" {
		from.Email = user.Email
	}
	return app.NewSendService(sender, e.db, user.ID, from), nil
}

// withSession opens the mailbox, runs fn against it and saves the result.
func withSession(ctx context.Context, fn func(sess *app.Session) error) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	sess, err := e.session(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := fn(sess); err != nil {
		return err
	}
	return sess.Save(ctx)
}
