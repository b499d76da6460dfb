// Package merge resolves the citations of a LaTeX document and appends the
// papers missing from a BibTeX file.
package merge

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/matsen/citefill/internal/exa"
	"github.com/matsen/citefill/internal/export"
	"github.com/matsen/citefill/internal/latex"
	"github.com/matsen/citefill/internal/reference"
)

// Searcher resolves a citation and its surrounding text to the top search result.
type Searcher interface {
	Resolve(ctx context.Context, citation, citeContext string) (*exa.Result, error)
}

// Fetcher retrieves bibliographic metadata for an arXiv ID.
type Fetcher interface {
	GetEntry(ctx context.Context, id string) (*reference.Reference, error)
}

// errNoRepositoryID is reported when a candidate carries no usable identifier.
var errNoRepositoryID = errors.New("candidate has no repository identifier")

// Merger runs the citation pipeline. It is not safe for concurrent use.
type Merger struct {
	searcher Searcher
	fetcher  Fetcher
	width    int
	dryRun   bool
	logger   *zap.Logger
}

// Option configures a Merger.
type Option func(*Merger)

// WithContextWidth sets the half-width of the context window sent with each query.
func WithContextWidth(n int) Option {
	return func(m *Merger) {
		m.width = n
	}
}

// WithDryRun makes MergeFile report what it would add without writing.
func WithDryRun(dryRun bool) Option {
	return func(m *Merger) {
		m.dryRun = dryRun
	}
}

// WithLogger sets the logger used for per-citation diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(m *Merger) {
		if l != nil {
			m.logger = l
		}
	}
}

// New creates a Merger.
func New(searcher Searcher, fetcher Fetcher, opts ...Option) *Merger {
	m := &Merger{
		searcher: searcher,
		fetcher:  fetcher,
		width:    latex.DefaultContextWidth,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// versionSuffix matches the version of an arXiv identifier, e.g. "v2".
var versionSuffix = regexp.MustCompile(`v\d+$`)

// index records the papers a bibliography holds, by normalized title and by
// arXiv identifier.
type index struct {
	titles map[string]bool
	ids    map[string]bool
}

// newIndex indexes the titles of bib's entries and the arXiv identifiers
// found in their Eprint fields and citation keys.
func newIndex(bib *export.Bibliography) *index {
	idx := &index{
		titles: make(map[string]bool),
		ids:    make(map[string]bool),
	}
	for title := range bib.TitleIndex() {
		idx.titles[title] = true
	}
	for _, e := range bib.Entries {
		idx.addID(e.Fields["eprint"])
		idx.addID(e.Key)
	}
	return idx
}

func (idx *index) hasTitle(title string) bool {
	return idx.titles[reference.NormalizeTitle(title)]
}

func (idx *index) addTitle(title string) {
	if key := reference.NormalizeTitle(title); key != "" {
		idx.titles[key] = true
	}
}

func (idx *index) hasID(id string) bool {
	return idx.ids[normalizeID(id)]
}

func (idx *index) addID(id string) {
	if key := normalizeID(id); key != "" {
		idx.ids[key] = true
	}
}

// normalizeID lower-cases an arXiv identifier and drops its "arXiv:" prefix
// and version, so 2101.00001v2 and arXiv:2101.00001 compare equal.
func normalizeID(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	id = strings.TrimPrefix(id, "arxiv:")
	return versionSuffix.ReplaceAllString(id, "")
}

// Merge resolves every citation in text, in document order, against bib.
// A citation is skipped as a duplicate when its search result or fetched
// entry has a title already present, or when its arXiv identifier is already
// present; citations that cannot be resolved or fetched are skipped too.
// bib is not modified. The only error returned is the context's, in which
// case the report is partial.
func (m *Merger) Merge(ctx context.Context, text string, bib *export.Bibliography) (*Report, error) {
	idx := newIndex(bib)

	report := &Report{Existing: len(bib.Entries)}
	for _, citation := range latex.ExtractCitations(text) {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		outcome, ref := m.mergeCitation(ctx, text, citation, idx)
		report.Outcomes = append(report.Outcomes, outcome)
		if ref != nil {
			report.New = append(report.New, *ref)
		}
	}

	return report, ctx.Err()
}

// mergeCitation handles one citation. idx gains the titles and identifier
// of an added entry.
func (m *Merger) mergeCitation(ctx context.Context, text, citation string, idx *index) (Outcome, *reference.Reference) {
	out := Outcome{Citation: citation}
	log := m.logger.With(zap.String("citation", citation))

	citeContext := latex.CitationContext(text, citation, m.width)
	candidate, err := m.searcher.Resolve(ctx, citation, citeContext)
	if err == nil && candidate == nil {
		err = exa.ErrNoResults
	}
	if err != nil {
		out.Status = StatusSearchFailed
		if exa.IsNoResults(err) {
			out.Status = StatusNoResult
		}
		out.Error = err.Error()
		log.Warn("skipping citation", zap.String("status", string(out.Status)), zap.Error(err))
		return out, nil
	}

	out.Title = candidate.Title
	out.ArXivID = exa.ArxivID(*candidate)

	if idx.hasTitle(candidate.Title) {
		out.Status = StatusDuplicate
		log.Debug("already in bibliography", zap.String("title", candidate.Title))
		return out, nil
	}

	if out.ArXivID == "" {
		out.Status = StatusFetchFailed
		out.Error = errNoRepositoryID.Error()
		log.Warn("skipping citation", zap.String("status", string(out.Status)), zap.Error(errNoRepositoryID))
		return out, nil
	}

	if idx.hasID(out.ArXivID) {
		out.Status = StatusDuplicate
		log.Debug("already in bibliography", zap.String("arxiv_id", out.ArXivID))
		return out, nil
	}

	ref, err := m.fetcher.GetEntry(ctx, out.ArXivID)
	if err != nil {
		out.Status = StatusFetchFailed
		out.Error = err.Error()
		log.Warn("skipping citation", zap.String("status", string(out.Status)),
			zap.String("arxiv_id", out.ArXivID), zap.Error(err))
		return out, nil
	}

	// The search title may differ from the canonical one
	if idx.hasTitle(ref.Title) || idx.hasID(ref.ArXivID) {
		out.Status = StatusDuplicate
		out.Title = ref.Title
		log.Debug("already in bibliography", zap.String("arxiv_id", ref.ArXivID), zap.String("title", ref.Title))
		return out, nil
	}

	idx.addTitle(candidate.Title)
	idx.addTitle(ref.Title)
	idx.addID(out.ArXivID)
	idx.addID(ref.ArXivID)
	out.Status = StatusAdded
	log.Info("adding entry", zap.String("arxiv_id", ref.ArXivID), zap.String("title", ref.Title))
	return out, ref
}

// MergeFile merges the citations of the document at docPath into the
// BibTeX file at bibPath. Reading or parsing either file is fatal and leaves
// bibPath untouched. The bibliography is rewritten once, at the end, and
// only if something was added.
func (m *Merger) MergeFile(ctx context.Context, docPath, bibPath string) (*Report, error) {
	doc, err := os.ReadFile(docPath)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}

	bib, err := export.ReadBibTeXFile(bibPath)
	if err != nil {
		return nil, err
	}

	report, err := m.Merge(ctx, string(doc), bib)
	if err != nil {
		return report, err
	}

	if len(report.New) == 0 || m.dryRun {
		return report, nil
	}

	additions := make([]string, 0, len(report.New))
	for _, ref := range report.New {
		additions = append(additions, export.ToBibTeX(ref))
	}
	if err := export.WriteBibTeXFile(bibPath, bib.Serialize(additions)); err != nil {
		return report, err
	}
	report.Written = true

	m.logger.Info("bibliography updated", zap.String("path", bibPath), zap.Int("added", len(report.New)))
	return report, nil
}
