package pipeline

import (
	"path/filepath"
	"strconv"
	"strings"

	"obscuritext/internal/config"
	"obscuritext/internal/surrogate"
	"obscuritext/internal/textutil"
)

// Naming holds every setting that shapes a run's output name.
type Naming struct {
	OutputBase string
	Columns    []string
	Run        config.RunOptions
	Mode       surrogate.Mode
	Top        surrogate.Threshold
	Bottom     surrogate.Threshold
	Seed       int64
	Salt       string
	HashLength int
}

// Name returns the deterministic base name shared by a run's output files.
func (n Naming) Name() string {
	columns := make([]string, len(n.Columns))
	for i, c := range n.Columns {
		columns[i] = textutil.SanitizeFileName(c)
	}

	var b strings.Builder
	b.WriteString(textutil.SanitizeFileName(n.OutputBase))
	b.WriteByte('_')
	b.WriteString(strings.Join(columns, "-"))
	b.WriteString(flag(n.Run.CaseSensitive, "_Case", "_NoCase"))
	b.WriteString(flag(n.Run.Stemming, "_Stem", "_NoStem"))
	b.WriteString(flag(n.Run.RemovePunctuation, "_NoPunc", "_Punc"))
	b.WriteString("_Above")
	b.WriteString(n.Top.String())
	b.WriteString("_Below")
	b.WriteString(n.Bottom.String())
	switch n.Mode {
	case surrogate.ModeHash:
		b.WriteString("_Salt")
		b.WriteString(saltSegment(n.Salt))
		if n.HashLength > 0 {
			b.WriteString("_Len")
			b.WriteString(strconv.Itoa(n.HashLength))
		}
	default:
		b.WriteString("_Seed")
		b.WriteString(strconv.FormatInt(n.Seed, 10))
	}
	return b.String()
}

// saltDigestLength is the length of the digest appended to rewritten salts.
const saltDigestLength = 6

// saltSegment returns the salt itself when it is already a safe segment and
// the sanitized salt plus a digest of the raw value otherwise.
func saltSegment(salt string) string {
	segment := textutil.SanitizeSegment(salt)
	if segment == salt {
		return segment
	}
	return segment + "-" + surrogate.NewHasher("", saltDigestLength).Sum(salt)
}

func flag(on bool, yes, no string) string {
	if on {
		return yes
	}
	return no
}

// OutputDir returns <root>/obscured_<input stem>.
func OutputDir(root, inputFile string) string {
	stem := strings.TrimSuffix(filepath.Base(inputFile), filepath.Ext(inputFile))
	return filepath.Join(root, "obscured_"+textutil.SanitizeFileName(stem))
}

// Outputs are the files one run writes.
type Outputs struct {
	Dataset  string
	Mapping  string
	Manifest string
}

// OutputPaths lays out the files of run name inside dir. Only hash runs
// write a manifest.
func OutputPaths(dir, name string, mode surrogate.Mode) Outputs {
	out := Outputs{
		Dataset: filepath.Join(dir, name+".csv"),
		Mapping: filepath.Join(dir, "mappings_"+name+".csv"),
	}
	if mode == surrogate.ModeHash {
		out.Manifest = filepath.Join(dir, "stopwords_"+name+".toml")
	}
	return out
}

// ObscuredColumn names the output column derived from column.
func ObscuredColumn(column string) string {
	return "obscured_" + column
}
