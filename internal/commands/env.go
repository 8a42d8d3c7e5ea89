package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/Yus314/MoLe-sub005/internal/config"
	"github.com/Yus314/MoLe-sub005/internal/hledger"
	"github.com/Yus314/MoLe-sub005/internal/logging"
	"github.com/Yus314/MoLe-sub005/internal/store"
)

const configFile = config.FileName

// project is a loaded project directory.
type project struct {
	dir string
	cfg *config.Config
	log *logging.Logger
}

func openProject(g *globals) (*project, error) {
	dir, err := filepath.Abs(g.dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	cfg, err := config.Load(filepath.Join(dir, configFile))
	if err != nil {
		return nil, fmt.Errorf("%w (run 'hlsync init' first?)", err)
	}
	return &project{
		dir: dir,
		cfg: cfg,
		log: logging.New(dir, cfg.Log, g.verbose),
	}, nil
}

func (p *project) Close() error {
	return p.log.Close()
}

func (p *project) saveConfig() error {
	return config.Save(filepath.Join(p.dir, configFile), p.cfg)
}

func (p *project) openStore(ctx context.Context) (*store.DB, error) {
	path := p.cfg.Database
	if !filepath.IsAbs(path) {
		path = filepath.Join(p.dir, path)
	}
	db, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	if err := db.InitSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func (p *project) client() *hledger.HTTPClient {
	var opts []hledger.Option
	if ua := p.cfg.HTTP.UserAgent; ua != "" {
		opts = append(opts, hledger.WithUserAgent(ua))
	}
	return hledger.NewHTTPClient(p.cfg.HTTP.Timeout, opts...)
}
