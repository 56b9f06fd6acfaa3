package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yorozuya-cybersecurity/netrunner/internal/config"
	"github.com/yorozuya-cybersecurity/netrunner/internal/console"
	"github.com/yorozuya-cybersecurity/netrunner/internal/eventlog"
	"github.com/yorozuya-cybersecurity/netrunner/internal/findings"
	"github.com/yorozuya-cybersecurity/netrunner/internal/report"
	"github.com/yorozuya-cybersecurity/netrunner/internal/workspace"
)

// session is everything one run of a collector command needs.
type session struct {
	cfg    *config.Config
	logger *logrus.Logger
	out    *console.Printer
	ws     *workspace.Workspace
	events *eventlog.Log
	store  *findings.Store

	reported bool
}

func newSession(cmd *cobra.Command) (*session, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(viper.GetViper(), cfgFile)
	if err != nil {
		return nil, err
	}

	logger := newLogger(cfg.Log.Level)
	ws, err := workspace.New(cfg.Workspace)
	if err != nil {
		return nil, err
	}

	events := eventlog.New(ws.Logs, eventlog.Options{
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
	})
	if err := events.LogEvent(fmt.Sprintf("session %s started: %s", ws.Session, strings.Join(os.Args, " "))); err != nil {
		return nil, err
	}
	logger.WithFields(logrus.Fields{"workspace": ws.Root, "session": ws.Session}).Debug("workspace ready")

	return &session{
		cfg:    cfg,
		logger: logger,
		out:    console.New(cmd.OutOrStdout()),
		ws:     ws,
		events: events,
		store:  findings.New(events, ws.Session),
	}, nil
}

// finish writes the report when --report is set and closes the event log.
func (s *session) finish(cmd *cobra.Command, runErr error) error {
	err := runErr
	if runErr == nil && !s.reported {
		if want, _ := cmd.Flags().GetBool("report"); want {
			err = s.writeReport()
		}
	}
	if cerr := s.events.Close(); cerr != nil {
		err = errors.Join(err, cerr)
	}
	return err
}

func (s *session) writeReport() error {
	s.out.Stage("Compiling security assessment report")
	path, err := report.GenerateFullReport(s.store, s.ws.Reports, s.reportOptions())
	if err != nil {
		return err
	}
	s.reported = true
	s.out.Success("Report generated: %s", path)
	s.out.Info("Snapshot: %s", report.SnapshotPath(path))
	return s.events.LogEvent("report generated: " + path)
}

func (s *session) reportOptions() report.Options {
	rc := s.cfg.Report
	return report.Options{
		ClientName:    rc.Client,
		TestType:      rc.Type,
		Author:        rc.Author,
		InScope:       rc.InScope,
		OutScope:      rc.OutScope,
		CustomSummary: rc.Summary,
		ToolsUsed:     rc.Tools,
	}
}

func newLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
		logger.Warnf("Invalid log level '%s', using 'info' as default", level)
	}
	logger.SetLevel(lvl)
	return logger
}
