package services

import "github.com/google/uuid"

// ID prefixes per entity.
const (
	recordIDPrefix  = "REC_"
	caseIDPrefix    = "CASE_"
	stepIDPrefix    = "STEP_"
	advisorIDPrefix = "ADV_"
)

func newID(prefix string) string {
	return prefix + uuid.NewString()
}
