package types

type ProblemKind string

const (
	ProblemParse      ProblemKind = "parse"
	ProblemValidation ProblemKind = "validation"
	ProblemNotFound   ProblemKind = "not_found"
	ProblemTransport  ProblemKind = "transport"
)

type OutcomeStatus string

const (
	OutcomeCreated OutcomeStatus = "created"
	OutcomeFailed  OutcomeStatus = "failed"
)

// AttributeStyle is the dialect a record's attributes are written in.
type AttributeStyle string

const (
	StyleEmpty  AttributeStyle = ""
	StyleLegacy AttributeStyle = "legacy"
	StylePath   AttributeStyle = "path"
	StyleMixed  AttributeStyle = "mixed"
)

// Attribute path prefixes understood by the SI API.
const (
	PrefixDomain        = "/domain/"
	PrefixSecrets       = "/secrets/"
	PrefixResourceValue = "/resource_value/"
	PrefixResource      = "/resource/"
	PrefixSI            = "/si/"
	PrefixCode          = "/code/"
	PrefixQualification = "/qualification/"
	PrefixRoot          = "/root/"
)
