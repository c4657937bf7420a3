package store

// BuildHint is the build-mode signal compiled into the binary. It is
// three-valued: no hint at all, a development build, or a production build.
type BuildHint int

const (
	// BuildHintAbsent means the binary was built without a mode tag; the
	// configured development mode decides.
	BuildHintAbsent BuildHint = iota
	// BuildHintDevelopment is set by the store_devmode build tag.
	BuildHintDevelopment
	// BuildHintProduction is set by the store_prodmode build tag.
	BuildHintProduction
)

func (h BuildHint) String() string {
	switch h {
	case BuildHintAbsent:
		return "absent"
	case BuildHintDevelopment:
		return "development"
	case BuildHintProduction:
		return "production"
	default:
		return "unknown"
	}
}

// Present reports whether the build carried a mode hint.
func (h BuildHint) Present() bool {
	return h != BuildHintAbsent
}

// CompiledBuildHint returns the hint selected by build tags.
func CompiledBuildHint() BuildHint {
	return compiledBuildHint
}

// Variant identifies which state operations implementation is handed out.
type Variant int

const (
	// VariantRaw passes reads and writes straight to the container.
	VariantRaw Variant = iota
	// VariantGuarded deep-freezes every value written through SetState.
	VariantGuarded
)

func (v Variant) String() string {
	if v == VariantGuarded {
		return "guarded"
	}
	return "raw"
}

// SelectVariant decides between the raw and guarded operations.
//
// Without a build hint, or in a development build running under a test
// harness, the configured development mode decides. Otherwise a development
// build is guarded and a production build is raw. The guard costs a deep
// traversal on every write, so production builds never pay for it; under
// store_prodmode its code is not even compiled in.
func SelectVariant(hint BuildHint, isTestRun, devModeEnabled bool) Variant {
	if hint == BuildHintAbsent || (hint == BuildHintDevelopment && isTestRun) {
		if devModeEnabled {
			return VariantGuarded
		}
		return VariantRaw
	}
	if hint == BuildHintDevelopment {
		return VariantGuarded
	}
	return VariantRaw
}
