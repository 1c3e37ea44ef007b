package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/docwrangler/docwrangler/internal/common"
	"github.com/docwrangler/docwrangler/internal/config"
	"github.com/docwrangler/docwrangler/internal/frontmatter"
	"github.com/docwrangler/docwrangler/internal/markdown"
	"github.com/rs/zerolog"
)

const logFileName = "archive.log"

// Summary reports an archive run
type Summary struct {
	ArchiveDir string
	Processed  int
	Succeeded  int
	Errors     int
}

// Archiver produces a self-contained copy of a doc set with includes expanded
type Archiver struct {
	cfg    config.ArchiveConfig
	fm     *common.FileManager
	logger zerolog.Logger
	now    func() time.Time
}

// NewArchiver creates a new archiver
func NewArchiver(cfg config.ArchiveConfig, logger zerolog.Logger) *Archiver {
	if cfg.MaxIncludeDepth <= 0 {
		cfg.MaxIncludeDepth = config.DefaultArchiveMaxIncludeDepth
	}
	return &Archiver{
		cfg:    cfg,
		fm:     common.NewFileManager(logger),
		logger: logger.With().Str("component", "Archiver").Logger(),
		now:    time.Now,
	}
}

// ArchiveDir returns "<output>/<docset>_archive_<timestamp>"
func (a *Archiver) ArchiveDir(docSetPath string, t time.Time) string {
	docSet := filepath.Base(filepath.Clean(docSetPath))
	return filepath.Join(a.cfg.OutputDir, docSet+"_archive_"+t.Format("20060102150405"))
}

// Run archives every Markdown file of the doc set
func (a *Archiver) Run(docSetPath string) (*Summary, error) {
	keep := common.HasExtension(".md")
	files, err := a.fm.WalkFiles(docSetPath, func(path string, d os.DirEntry) bool {
		if a.cfg.SkipIndexFiles && d.Name() == "_index.md" {
			return false
		}
		return keep(path, d)
	})
	if err != nil {
		return nil, err
	}

	summary := &Summary{ArchiveDir: a.ArchiveDir(docSetPath, a.now())}
	if err := a.fm.EnsureDirectory(summary.ArchiveDir, 0755); err != nil {
		return nil, err
	}
	logFile, err := os.Create(filepath.Join(summary.ArchiveDir, logFileName))
	if err != nil {
		return nil, common.WrapError(err, "failed to create archive log")
	}
	defer logFile.Close()
	log := a.logger.Hook(newLogFileHook(logFile))
	log.Info().Msgf("Archive folder: %s", summary.ArchiveDir)

	docSet := filepath.Base(filepath.Clean(docSetPath))
	for _, src := range files {
		summary.Processed++
		rel, err := filepath.Rel(docSetPath, src)
		if err != nil {
			summary.Errors++
			log.Error().Err(err).Msgf("Cannot resolve %s", src)
			continue
		}

		content, fileErrors, err := a.ProcessFile(src, filepath.ToSlash(rel), docSet, log)
		if err != nil {
			summary.Errors++
			log.Error().Err(err).Msgf("Failed to read %s", src)
			continue
		}
		target := filepath.Join(summary.ArchiveDir, rel)
		if err := a.fm.WriteFile(target, []byte(content), common.DefaultFileWriteOptions()); err != nil {
			summary.Errors++
			log.Error().Err(err).Msgf("Failed to write %s", target)
			continue
		}

		log.Info().Msgf("Processed: %s", src)
		summary.Errors += fileErrors
		if fileErrors == 0 {
			summary.Succeeded++
		}
	}

	log.Info().
		Int("processed", summary.Processed).
		Int("succeeded", summary.Succeeded).
		Int("errors", summary.Errors).
		Msg("Archive complete")
	return summary, nil
}

// ProcessFile returns the archived form of one source file and the number of
// include errors met while expanding it
func (a *Archiver) ProcessFile(src, rel, docSet string, log zerolog.Logger) (string, int, error) {
	data, err := a.fm.ReadFile(src)
	if err != nil {
		return "", 0, err
	}

	errs := 0
	text := string(frontmatter.Strip(data))
	text = a.Expand(text, 0, &errs, log)
	text = markdown.RemoveVersionLines(text)
	text = markdown.RemoveHTMLComments(text)
	text = markdown.ReplaceRelrefs(text, pathDir(rel), docSet)
	return text, errs, nil
}

// Expand replaces include shortcodes recursively. A missing target or a
// nesting deeper than the configured limit logs an error and expands to nothing.
func (a *Archiver) Expand(text string, depth int, errs *int, log zerolog.Logger) string {
	if !markdown.HasIncludes(text) {
		return text
	}
	if depth >= a.cfg.MaxIncludeDepth {
		*errs++
		log.Error().Int("depth", depth).Msgf("Include depth limit exceeded (%d)", a.cfg.MaxIncludeDepth)
		return markdown.ReplaceIncludes(text, func(string) string { return "" })
	}

	return markdown.ReplaceIncludes(text, func(target string) string {
		path := filepath.Join(a.cfg.IncludesDir, filepath.FromSlash(strings.TrimLeft(target, "/")))
		data, err := a.fm.ReadFile(path)
		if err != nil {
			*errs++
			log.Error().Str("include", target).Msgf("Missing include: %s", target)
			return ""
		}
		return a.Expand(string(frontmatter.Strip(data)), depth+1, errs, log)
	})
}

func pathDir(rel string) string {
	i := strings.LastIndex(rel, "/")
	if i < 0 {
		return ""
	}
	return rel[:i]
}

// logFileHook mirrors event messages into the archive log
type logFileHook struct {
	mu sync.Mutex
	w  io.Writer
}

func newLogFileHook(w io.Writer) *logFileHook {
	return &logFileHook{w: w}
}

func (h *logFileHook) Run(_ *zerolog.Event, level zerolog.Level, msg string) {
	if msg == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	fmt.Fprintf(h.w, "%s %s\n", strings.ToUpper(level.String()), msg)
}
