package domain

import (
	"strings"
	"time"
)

// ActorType classifies the person an actor reference points at.
type ActorType string

// Known actor types.
const (
	ActorAdmin     ActorType = "관리자"
	ActorParent    ActorType = "학부모"
	ActorStudent   ActorType = "학생"
	ActorColleague ActorType = "동료교사"
	ActorOutsider  ActorType = "외부인"
	ActorOther     ActorType = "기타"
)

// OtherActorLabel is shown for outsiders and unclassified actors.
const OtherActorLabel = "기타/외부인"

// ActorTypes lists every recognised actor type.
var ActorTypes = []ActorType{ActorAdmin, ActorParent, ActorStudent, ActorColleague, ActorOutsider, ActorOther}

// IsValid returns true if the actor type is recognised.
func (t ActorType) IsValid() bool {
	for _, known := range ActorTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ActorRef identifies a person involved in a record or case.
type ActorRef struct {
	Type ActorType `json:"type"`
	Name string    `json:"name"`
}

// Short returns a compact label such as "학생 홍길동".
func (a ActorRef) Short() string {
	name := strings.TrimSpace(a.Name)
	if name == "" {
		name = "기타"
	}
	switch ActorType(strings.TrimSpace(string(a.Type))) {
	case ActorStudent, ActorParent, ActorAdmin, ActorColleague:
		return strings.TrimSpace(string(a.Type)) + " " + name
	default:
		return OtherActorLabel + " " + name
	}
}

// Sensitivity is the confidentiality level of a record, LV1 (low) to LV5 (high).
type Sensitivity string

// Sensitivity levels.
const (
	LV1 Sensitivity = "LV1"
	LV2 Sensitivity = "LV2"
	LV3 Sensitivity = "LV3"
	LV4 Sensitivity = "LV4"
	LV5 Sensitivity = "LV5"
)

// IsValid returns true if the level is one of LV1..LV5.
func (s Sensitivity) IsValid() bool {
	switch s {
	case LV1, LV2, LV3, LV4, LV5:
		return true
	default:
		return false
	}
}

// OtherTag marks a free-form place or storage medium that needs detail text.
const OtherTag = "기타"

// StoreTypes lists the storage media offered by default.
var StoreTypes = []string{
	"녹취록", "통화녹취", "음성녹음", "문서", "공문", "가정통신문", "회의록", "상담록", "상담일지",
	"지도일지", "교무수첩", "업무일지", "학급일지", "전화", "문자", "업무메신저", "이메일", "사진",
	"영상", "CCTV", "진술서", "방문상담", "공식채널", OtherTag,
}

// PlaceTypes lists the places offered by default.
var PlaceTypes = []string{
	"교실", "복도", "급식실", "보건실", "교외", "교무실", "운동장", "상담실", "체육관", "도서관",
	"행정실", "생활지도실", "온라인", OtherTag,
}

// MaxExtraEntries bounds the Extra escape hatch on records and advisories.
const MaxExtraEntries = 16

// Record is an atomic, timestamped incident note.
// Records are immutable once saved; they can only be deleted while
// no case references them.
type Record struct {
	// ID is the unique identifier for the record.
	ID string `json:"id"`

	// Timestamp is when the incident happened. Zero means unknown.
	Timestamp time.Time `json:"ts"`

	// Actor is the main person the record is about.
	Actor ActorRef `json:"actor"`

	// Related lists other people involved.
	Related []ActorRef `json:"related"`

	// Place is one of PlaceTypes; PlaceOther holds detail for OtherTag.
	Place      string `json:"place"`
	PlaceOther string `json:"placeOther,omitempty"`

	// Summary is the free-text note.
	Summary string `json:"summary"`

	// Sensitivity is the confidentiality level.
	Sensitivity Sensitivity `json:"lv"`

	// StoreType is the storage medium tag; StoreOther holds detail for OtherTag.
	StoreType  string `json:"storeType"`
	StoreOther string `json:"storeOther,omitempty"`

	// Extra carries bounded free-form key-value pairs.
	Extra map[string]string `json:"extra,omitempty"`

	// CreatedAt is when the record was saved.
	CreatedAt time.Time `json:"createdAt"`
}

// PlaceLabel returns the place, expanding OtherTag with its detail text.
func (r Record) PlaceLabel() string {
	return otherLabel(r.Place, r.PlaceOther)
}

// StoreLabel returns the storage medium, expanding OtherTag with its detail text.
func (r Record) StoreLabel() string {
	return otherLabel(r.StoreType, r.StoreOther)
}

func otherLabel(value, other string) string {
	if value != OtherTag {
		return value
	}
	if d := strings.TrimSpace(other); d != "" {
		return OtherTag + ":" + d
	}
	return OtherTag
}

// Actors returns the main actor followed by related actors, deduplicated.
func (r Record) Actors() []ActorRef {
	out := make([]ActorRef, 0, len(r.Related)+1)
	for _, a := range append([]ActorRef{r.Actor}, r.Related...) {
		a.Name = strings.TrimSpace(a.Name)
		if a.Name == "" {
			continue
		}
		dup := false
		for _, seen := range out {
			if strings.TrimSpace(string(seen.Type)) == strings.TrimSpace(string(a.Type)) && seen.Name == a.Name {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, a)
		}
	}
	return out
}
