package metadata

import (
	"bytes"
	"io"
	"os"

	"github.com/docwrangler/docwrangler/internal/common"
	"github.com/docwrangler/docwrangler/internal/config"
	"github.com/docwrangler/docwrangler/internal/differ"
	"github.com/docwrangler/docwrangler/internal/frontmatter"
	"github.com/rs/zerolog"
)

// FileResult describes what pruning did to one file
type FileResult struct {
	Path         string
	RemovedKeys  []string
	MergedKeys   []string
	DroppedTypes []string
	Changed      bool
}

// Summary aggregates a pruning run
type Summary struct {
	Scanned int
	Changed int
	Skipped int
	Errors  int
}

// Pruner removes deny-listed front matter keys and folds category keys into the type key
type Pruner struct {
	cfg        config.MetadataConfig
	valid      map[string]struct{}
	fm         *common.FileManager
	differ     *differ.LineDiffer
	diffOutput io.Writer
	logger     zerolog.Logger
}

// PrunerBuilder provides a fluent interface for creating a Pruner
type PrunerBuilder struct {
	logger     zerolog.Logger
	cfg        config.MetadataConfig
	diffOutput io.Writer
}

// NewPrunerBuilder creates a new builder
func NewPrunerBuilder(logger zerolog.Logger) *PrunerBuilder {
	return &PrunerBuilder{
		logger: logger,
		cfg:    config.NewDefaultMetadataConfig(),
	}
}

// WithConfig sets the metadata configuration
func (b *PrunerBuilder) WithConfig(cfg config.MetadataConfig) *PrunerBuilder {
	b.cfg = cfg
	return b
}

// WithDryRun makes the pruner print diffs to w instead of rewriting files
func (b *PrunerBuilder) WithDryRun(w io.Writer) *PrunerBuilder {
	b.diffOutput = w
	return b
}

// Build creates the Pruner
func (b *PrunerBuilder) Build() (*Pruner, error) {
	if b.cfg.TargetKey == "" {
		return nil, common.NewValidationError("target_key", b.cfg.TargetKey, "target key cannot be empty")
	}
	valid := make(map[string]struct{}, len(b.cfg.ValidTypes))
	for _, t := range b.cfg.ValidTypes {
		valid[t] = struct{}{}
	}
	return &Pruner{
		cfg:        b.cfg,
		valid:      valid,
		fm:         common.NewFileManager(b.logger),
		differ:     differ.NewLineDiffer(differ.DefaultDiffConfig()),
		diffOutput: b.diffOutput,
		logger:     b.logger.With().Str("component", "MetadataPruner").Logger(),
	}, nil
}

// Prune applies the pruning rules to one document's content. It returns the
// new content and whether anything changed. Content without front matter is
// returned as is.
func (p *Pruner) Prune(content []byte) ([]byte, *FileResult, error) {
	result := &FileResult{}
	doc, err := frontmatter.ParseDocument(content)
	if err != nil {
		return nil, nil, err
	}
	if !doc.HasFrontMatter {
		return content, result, nil
	}

	for _, key := range p.cfg.RemoveKeys {
		if doc.Fields.Delete(key) {
			result.RemovedKeys = append(result.RemovedKeys, key)
		}
	}
	p.mergeTypes(doc.Fields, result)

	if len(result.RemovedKeys) == 0 && len(result.MergedKeys) == 0 && len(result.DroppedTypes) == 0 {
		return content, result, nil
	}

	out, err := doc.Bytes(p.cfg.IndentWidth)
	if err != nil {
		return nil, nil, err
	}
	result.Changed = !bytes.Equal(out, content)
	return out, result, nil
}

// mergeTypes folds the merge keys into the target key, remaps values and
// keeps only valid types. The target key is left untouched when the result
// would equal its current value.
func (p *Pruner) mergeTypes(fields *frontmatter.Fields, result *FileResult) {
	existing := fields.Strings(p.cfg.TargetKey)
	candidates := append([]string(nil), existing...)
	for _, key := range p.cfg.MergeKeys {
		if !fields.Has(key) {
			continue
		}
		candidates = append(candidates, fields.Strings(key)...)
		fields.Delete(key)
		result.MergedKeys = append(result.MergedKeys, key)
	}

	seen := make(map[string]struct{}, len(candidates))
	var merged []string
	for _, value := range candidates {
		if mapped, ok := p.cfg.TypeRemap[value]; ok {
			value = mapped
		}
		if _, ok := p.valid[value]; !ok {
			result.DroppedTypes = append(result.DroppedTypes, value)
			continue
		}
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		merged = append(merged, value)
	}

	if len(result.MergedKeys) == 0 && len(result.DroppedTypes) == 0 && equalStrings(existing, merged) {
		return
	}
	if len(merged) == 0 {
		fields.Delete(p.cfg.TargetKey)
		return
	}
	fields.SetStrings(p.cfg.TargetKey, merged)
}

// PruneFile prunes one file in place, or prints its diff in dry-run mode
func (p *Pruner) PruneFile(path string) (*FileResult, error) {
	content, err := p.fm.ReadFile(path)
	if err != nil {
		return nil, err
	}
	out, result, err := p.Prune(content)
	if err != nil {
		return nil, common.WrapErrorf(err, "invalid front matter in %s", path)
	}
	result.Path = path
	if !result.Changed {
		return result, nil
	}

	if p.diffOutput != nil {
		fd := p.differ.Diff(path, string(content), string(out))
		if err := p.differ.Render(p.diffOutput, fd); err != nil {
			return nil, common.WrapError(err, "failed to render diff")
		}
		return result, nil
	}

	if err := p.fm.WriteFile(path, out, fileOptions(path)); err != nil {
		return nil, err
	}
	p.logger.Info().
		Str("path", path).
		Strs("removed", result.RemovedKeys).
		Strs("merged", result.MergedKeys).
		Strs("dropped_types", result.DroppedTypes).
		Msg("Pruned front matter")
	return result, nil
}

// Run prunes every Markdown file under root
func (p *Pruner) Run(root string) (*Summary, error) {
	files, err := p.fm.WalkFiles(root, common.HasExtension(".md"))
	if err != nil {
		return nil, err
	}

	summary := &Summary{}
	failures := &common.ErrorCollector{}
	for _, path := range files {
		summary.Scanned++
		result, err := p.PruneFile(path)
		if err != nil {
			failures.AddWithContext(err, path)
			p.logger.Error().Err(err).Str("path", path).Msg("Failed to prune file")
			continue
		}
		if result.Changed {
			summary.Changed++
		} else {
			summary.Skipped++
		}
	}

	summary.Errors = failures.Count()
	ev := p.logger.Info()
	if failures.HasErrors() {
		ev = p.logger.Warn().AnErr("failures", failures.Error())
	}
	ev.Int("scanned", summary.Scanned).
		Int("changed", summary.Changed).
		Int("errors", summary.Errors).
		Bool("dry_run", p.diffOutput != nil).
		Msg("Metadata pruning complete")
	return summary, nil
}

func fileOptions(path string) common.FileWriteOptions {
	opts := common.DefaultFileWriteOptions()
	if info, err := os.Stat(path); err == nil {
		opts.Permissions = info.Mode().Perm()
	}
	return opts
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
