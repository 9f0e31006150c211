package domain

// LockStatus is the answer an SCM gives when asked whether a lock entry
// still matches the declared options and the on-disk checkout.
type LockStatus int

const (
	// LockOK means the checkout matches the lock and the lock matches the
	// declaration.
	LockOK LockStatus = iota
	// LockMismatch means the checkout or the lock entry does not match the
	// declaration.
	LockMismatch
	// LockOutdated means the lock entry was taken against a previous version
	// of the declaration and needs to be refreshed.
	LockOutdated
)

// LockEntry is one persisted pin from the lock file. Fields are populated
// depending on the SCM that wrote the entry.
type LockEntry struct {
	SCM      string `yaml:"scm"`
	Revision string `yaml:"revision,omitempty"` // git commit
	Ref      string `yaml:"ref,omitempty"`      // symbolic ref requested at lock time
	Version  string `yaml:"version,omitempty"`  // registry release
	URL      string `yaml:"url,omitempty"`
	Path     string `yaml:"path,omitempty"`
	Checksum string `yaml:"checksum,omitempty"`
}

// Manifest is the per-dependency build metadata recorded at the last
// successful compile. The evaluator only ever compares it for equality.
type Manifest struct {
	LanguageVersion string `yaml:"language_version"`
	RuntimeVersion  string `yaml:"runtime_version"`
	SCM             string `yaml:"scm"`
	Revision        string `yaml:"revision,omitempty"` // source revision the build was taken from
}

// SCMResolver picks the fetch strategy for a declaration. Implemented by the
// SCM registry; the converger only sees this capability.
type SCMResolver interface {
	For(opts Opts) (SCM, error)
}

// SCM abstracts a fetch strategy (git, local path, release registry). The
// engine branches on SCM answers but never performs fetch I/O itself; all
// network and process work lives behind this interface.
type SCM interface {
	// Name returns the SCM identifier persisted into lock and manifest files.
	Name() string

	// Accepts reports whether this SCM can handle the given declaration
	// options. The registry asks each SCM in priority order.
	Accepts(opts Opts) bool

	// Fetchable reports whether this SCM retrieves sources (false for
	// in-place strategies such as path dependencies).
	Fetchable() bool

	// LockStatus compares the declaration, the lock entry, and the checkout.
	// SCMs that pin revisions yield LockMismatch for a nil entry; the lock
	// evaluation turns that into a "not locked" status.
	LockStatus(opts Opts, lock *LockEntry) LockStatus

	// Format renders the declared source for listings ("1.2.0", a URL, a path).
	Format(opts Opts) string

	// FormatLock renders the pinned reference for listings, or "" when the
	// entry carries nothing worth showing.
	FormatLock(lock *LockEntry) string
}
