// almacenctl tareas de operación del almacén: migraciones, carga de saldos iniciales y
// conciliación del kardex.
//
// Uso:
//
//	almacenctl migrate
//	almacenctl seed --file saldos.csv [--latin1] [--dry-run]
//	almacenctl audit
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/almacen-fh/internal/application/catalogo"
	"github.com/jhoicas/almacen-fh/internal/application/inventory"
	"github.com/jhoicas/almacen-fh/internal/infrastructure/memory"
	"github.com/jhoicas/almacen-fh/internal/infrastructure/postgres"
	"github.com/jhoicas/almacen-fh/pkg/config"
	"github.com/jhoicas/almacen-fh/pkg/logger"
	"github.com/urfave/cli/v2"
)

// Código de salida de audit cuando hay discrepancias.
const exitDiscrepancias = 2

type env struct {
	cfg *config.Config
	log *logger.Logger
}

func main() {
	e := &env{}
	app := &cli.App{
		Name:  "almacenctl",
		Usage: "Operación del inventario de la planta",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Nivel de log (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
				Value:   "info",
			},
		},
		Before: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			e.cfg = cfg
			e.log = logger.New(logger.Config{Env: cfg.App.Env, Level: c.String("log-level")})
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "Aplica las migraciones pendientes",
				Action: e.migrate,
			},
			{
				Name:  "seed",
				Usage: "Carga categorías, productos y saldos iniciales desde un CSV",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "CSV con columnas categoria,rol,producto,stock_kg,peso_por_bulto",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "latin1",
						Usage: "El archivo viene en ISO-8859-1",
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Valida el archivo contra un almacén en memoria sin tocar la base",
					},
					&cli.StringFlag{
						Name:  "usuario",
						Usage: "Usuario al que se atribuyen las entradas iniciales",
						Value: "seed",
					},
				},
				Action: e.seed,
			},
			{
				Name:   "audit",
				Usage:  "Concilia el stock de cada producto contra su kardex",
				Action: e.audit,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "almacenctl:", err)
		os.Exit(1)
	}
}

func (e *env) connect(ctx context.Context) (*pgxpool.Pool, error) {
	pool, err := postgres.NewPool(ctx, e.cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a %s: %w", postgres.RedactDSN(e.cfg.DB.ConnectionString()), err)
	}
	return pool, nil
}

func (e *env) migrate(c *cli.Context) error {
	pool, err := e.connect(c.Context)
	if err != nil {
		return err
	}
	defer pool.Close()
	n, err := postgres.Migrate(c.Context, pool, e.log)
	if err != nil {
		return err
	}
	e.log.Info().Int("aplicadas", n).Msg("esquema al día")
	return nil
}

func (e *env) seed(c *cli.Context) error {
	f, err := os.Open(c.String("file"))
	if err != nil {
		return err
	}
	defer f.Close()
	rows, err := readSeed(f, c.Bool("latin1"))
	if err != nil {
		return err
	}

	var (
		txRunner inventory.TxRunner
		repos    inventory.Repos
	)
	if c.Bool("dry-run") {
		store := memory.NewStore()
		txRunner, repos = store, store.Repos()
	} else {
		pool, err := e.connect(c.Context)
		if err != nil {
			return err
		}
		defer pool.Close()
		txRunner, repos = postgres.NewTxRunner(pool), postgres.NewRepos(pool)
	}

	ledger := inventory.NewLedger(txRunner, repos, nil, e.log.Component("ledger"), inventory.LedgerConfig{
		MaxRetries: e.cfg.Ledger.MaxRetries,
	})
	s := &seeder{
		catalogo: catalogo.NewUseCase(repos.Products, repos.Categories),
		ledger:   ledger,
		usuario:  c.String("usuario"),
		log:      e.log.Component("seed"),
	}
	res, err := s.apply(c.Context, rows)
	if err != nil {
		return err
	}
	e.log.Info().
		Bool("dry_run", c.Bool("dry-run")).
		Int("categorias", res.Categorias).
		Int("productos", res.Productos).
		Int("entradas", res.Entradas).
		Int("omitidos", res.Omitidos).
		Msg("carga inicial terminada")
	return nil
}

func (e *env) audit(c *cli.Context) error {
	pool, err := e.connect(c.Context)
	if err != nil {
		return err
	}
	defer pool.Close()

	repos := postgres.NewRepos(pool)
	projector := inventory.NewKardexProjector(repos.Products, postgres.NewKardexRepository(pool), nil, e.log.Component("kardex"))
	auditor := inventory.NewAuditor(repos.Products, projector, e.cfg.Ledger.AuditConcurrency, e.log.Component("audit"))
	diff, err := auditor.Conciliar(c.Context)
	if err != nil {
		return err
	}
	if len(diff) == 0 {
		fmt.Fprintln(c.App.Writer, "kardex conciliado: sin discrepancias")
		return nil
	}
	for _, d := range diff {
		fmt.Fprintf(c.App.Writer, "%s\t%s\tstock=%s\tkardex=%s\tdiferencia=%s\n",
			d.ProductID, d.Nombre, d.StockKg.StringFixed(2), d.SaldoKardex.StringFixed(2), d.Diferencia.StringFixed(2))
	}
	return cli.Exit(fmt.Sprintf("%d productos con discrepancias", len(diff)), exitDiscrepancias)
}
