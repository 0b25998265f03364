package main

import (
	"context"
	"os"
	"slices"

	"github.com/yanun0323/logs"

	"rollpanel/internal/errors"
	"rollpanel/internal/mdg"
	"rollpanel/internal/model"
	"rollpanel/internal/obs"
	"rollpanel/internal/ops"
	"rollpanel/internal/panel"
	"rollpanel/internal/sim"
	"rollpanel/internal/source"
	"rollpanel/internal/stats"
	"rollpanel/pkg/conn"
)

type report struct {
	Records   int
	Bars      int
	Ticks     int
	Appended  int
	Items     []string
	Columns   []string
	Window    *panel.Block[float64]
	Summaries []stats.Summary
	Values    []sim.PortfolioValue
	Positions map[string]int64
	Metrics   obs.Snapshot
}

func (r report) log() {
	logs.Infof("replay: records %d, bars %d, ticks %d, appended %d", r.Records, r.Bars, r.Ticks, r.Appended)
	logs.Infof("replay: items %v, columns %v", r.Items, r.Columns)
	for _, s := range r.Summaries {
		logs.Infof("replay: %s count %d mean %.4f min %.4f max %.4f quantiles %v", s.Column, s.Count, s.Mean, s.Min, s.Max, s.Quantiles)
	}
	if n := len(r.Values); n != 0 {
		logs.Infof("replay: portfolio %.2f -> %.2f, positions %v", r.Values[0].Value, r.Values[n-1].Value, r.Positions)
	}
	m := r.Metrics
	logs.Infof("replay: metrics appends %d, rolls %d, rebuilds %d, dropped columns %d, rebuild avg %s max %s",
		m.Appends, m.Rolls, m.Rebuilds, m.DroppedColumns, m.RebuildLatency.Avg, m.RebuildLatency.Max)
}

func run(ctx context.Context, cfg ops.Loaded) (report, error) {
	records, err := loadRecords(ctx, cfg)
	if err != nil {
		return report{}, err
	}

	var bars []model.Bar
	if cfg.Source.Mode == ops.ModeIrregular {
		bars = source.Irregular(records)
	} else if bars, err = source.Regular(records, cfg.Source.Interval); err != nil {
		return report{}, err
	}
	ticks := source.Frames(bars)

	metrics := obs.NewMetrics()
	panelCfg := cfg.Panel
	panelCfg.Metrics = metrics
	d, err := panel.NewDynamic[float64](panelCfg, cfg.Items, cfg.Columns)
	if err != nil {
		return report{}, errors.Wrap(err, "create panel")
	}

	var simulation sim.Simulation
	if cfg.SimEnabled() {
		strategy, err := sim.StrategyByName(cfg.Strategy.Name, cfg.Strategy.Symbol, cfg.Strategy.Amount)
		if err != nil {
			return report{}, err
		}
		if simulation, err = sim.New(cfg.Sim, strategy); err != nil {
			return report{}, err
		}
	}

	rep := report{Records: len(records), Bars: len(bars), Ticks: len(ticks)}
	for _, tick := range ticks {
		if ctx.Err() != nil {
			logs.Info("replay: shutdown, stop feeding")
			break
		}
		if err := d.Append(tick.Time, tick.Frame); err != nil {
			return report{}, errors.Wrapf(err, "append %s", tick.Time)
		}
		rep.Appended++

		if simulation != nil {
			if bar, ok := sim.LatestBar(d.CurrentWindow(), model.FieldPrice); ok {
				simulation.Step(bar)
			}
		}
		if every := cfg.Stats.Every; every > 0 && rep.Appended%every == 0 {
			summaries, err := summarize(d.Store(), cfg.Stats)
			if err != nil {
				return report{}, err
			}
			for _, s := range summaries {
				logs.Infof("replay: %s %s %s mean %.4f quantiles %v", tick.Time.Format("2006-01-02 15:04"), cfg.Stats.Field, s.Column, s.Mean, s.Quantiles)
			}
		}
	}

	rep.Window = d.CurrentWindow()
	rep.Items = d.Items()
	rep.Columns = d.Columns()
	if rep.Summaries, err = summarize(d.Store(), cfg.Stats); err != nil {
		return report{}, err
	}
	if simulation != nil {
		rep.Values = simulation.PortfolioValues()
		rep.Positions = simulation.Positions()
	}
	rep.Metrics = metrics.Snapshot()
	return rep, nil
}

// summarize sketches the configured field of the visible window. A field the
// panel has not seen yet yields nothing.
func summarize(p *panel.Rolling[float64], cfg ops.StatsConfig) ([]stats.Summary, error) {
	if !slices.Contains(p.Items(), cfg.Field) {
		return nil, nil
	}
	return stats.Summarize(p.CurrentWindow(), cfg.Field, cfg.Quantiles, cfg.Accuracy)
}

func loadRecords(ctx context.Context, cfg ops.Loaded) ([]model.TradeRecord, error) {
	if cfg.Source.File != "" {
		f, err := os.Open(cfg.Source.File)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		records, err := source.LoadRecords(f)
		if err != nil {
			return nil, err
		}
		if len(cfg.Source.Underlyings) != 0 {
			records = slices.DeleteFunc(records, func(r model.TradeRecord) bool {
				return !slices.Contains(cfg.Source.Underlyings, r.Underlying)
			})
		}
		logs.Infof("replay: loaded %d records from %s", len(records), cfg.Source.File)
		return records, nil
	}

	if syn := cfg.Source.Synthetic; syn != nil {
		g, err := mdg.NewGenerator(syn.Contracts, syn.BasePrice, syn.BaseSize, syn.TickSize)
		if err != nil {
			return nil, err
		}
		records := g.Records(cfg.Source.Interval.Start, syn.Every, syn.Count)
		logs.Infof("replay: generated %d records", len(records))
		return records, nil
	}

	client, err := conn.New(*cfg.Postgres)
	if err != nil {
		return nil, errors.Wrap(err, "connect postgres")
	}
	defer func() {
		if err := client.Close(); err != nil {
			logs.Errorf("replay: close postgres, err: %+v", err)
		}
	}()

	var records []model.TradeRecord
	iv := cfg.Source.Interval
	for _, underlying := range cfg.Source.Underlyings {
		rs, err := client.TradeRecords(ctx, underlying, iv.Start, iv.End)
		if err != nil {
			return nil, err
		}
		logs.Infof("replay: loaded %d records of %s", len(rs), underlying)
		records = append(records, rs...)
	}
	return records, nil
}
