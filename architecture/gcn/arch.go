package gcn

// GPUFamily identifies one of the architecture generations the encoder
// gates instruction availability and constraints on. Families are grouped
// the way the architecture manual groups them, not by individual chip.
type GPUFamily int

const (
	// FamilySI covers Southern Islands/Sea Islands-class parts (Bonaire and
	// earlier): SMRD-only scalar memory, no DPP/SDWA.
	FamilySI GPUFamily = iota
	// FamilyVI covers Volcanic Islands-class parts (Fiji and similar): SMEM
	// replaces SMRD, DPP and SDWA become available.
	FamilyVI
	// FamilyRX3x0 covers the RX 3xx refresh, which narrows the scalar
	// register pool by two relative to VI.
	FamilyRX3x0
)

// ArchMask is a bitset of GPUFamily values, used by instruction descriptors
// to declare which families support a given mnemonic/form.
type ArchMask uint8

const (
	ArchSI    ArchMask = 1 << FamilySI
	ArchVI    ArchMask = 1 << FamilyVI
	ArchRX3x0 ArchMask = 1 << FamilyRX3x0

	ArchAll ArchMask = ArchSI | ArchVI | ArchRX3x0
)

// Supports reports whether fam is a member of the mask.
func (m ArchMask) Supports(fam GPUFamily) bool {
	return m&(1<<uint(fam)) != 0
}

// Constraints holds the per-family facts the dispatchers consult.
// ExtendedInlineConsts admits 1/(2*pi) into the inline-constant set. It
// does not gate any 16-bit float inline forms: float literals classify
// against the same fixed set on every family.
type Constraints struct {
	MaxScalarIndex       int
	SMEMReplacesSMRD     bool
	HasDPP               bool
	HasSDWA              bool
	ExtendedInlineConsts bool
}

var constraintsByFamily = map[GPUFamily]Constraints{
	FamilySI: {
		MaxScalarIndex:       103,
		SMEMReplacesSMRD:     false,
		HasDPP:               false,
		HasSDWA:              false,
		ExtendedInlineConsts: false,
	},
	FamilyVI: {
		MaxScalarIndex:       103,
		SMEMReplacesSMRD:     true,
		HasDPP:               true,
		HasSDWA:              true,
		ExtendedInlineConsts: true,
	},
	FamilyRX3x0: {
		MaxScalarIndex:       101,
		SMEMReplacesSMRD:     true,
		HasDPP:               true,
		HasSDWA:              true,
		ExtendedInlineConsts: true,
	},
}

// ConstraintsFor returns the constraint table for fam.
func ConstraintsFor(fam GPUFamily) Constraints {
	return constraintsByFamily[fam]
}

// ParseGPUName maps a `.gpu` directive argument to a family. Unrecognised
// names default to FamilySI, the oldest supported generation.
func ParseGPUName(name string) GPUFamily {
	switch name {
	case "Fiji", "Tonga", "Iceland", "Carrizo", "VI":
		return FamilyVI
	case "Polaris10", "Polaris11", "RX3x0", "Ellesmere", "Baffin":
		return FamilyRX3x0
	default:
		return FamilySI
	}
}
