package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/KaramelBytes/promodash/internal/binding"
	"github.com/KaramelBytes/promodash/internal/dataset"
)

// loadTable reads the configured dataset.
func loadTable() (*dataset.Table, error) {
	if cfg == nil || cfg.DataPath == "" {
		return nil, fmt.Errorf("no dataset configured (use --data or `promodash config set data_path <file>`)")
	}
	delim, err := cfg.DelimiterRune()
	if err != nil {
		return nil, err
	}
	start := time.Now()
	t, err := dataset.Load(cfg.DataPath, dataset.Options{Delimiter: delim, Sheet: cfg.SheetName})
	if err != nil {
		return nil, err
	}
	slog.Debug("dataset loaded", "path", cfg.DataPath, "employees", t.Len(), "took", time.Since(start))
	return t, nil
}

// selection resolves the category/department pair from flags, falling back to
// the configured defaults.
func selection(category, department string) binding.Selection {
	sel := binding.Selection{
		Category:   dataset.Field(cfg.DefaultCategory),
		Department: cfg.DefaultDepartment,
	}
	if category != "" {
		sel.Category = dataset.Field(category)
	}
	if department != "" {
		sel.Department = department
	}
	return sel
}
