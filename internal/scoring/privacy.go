// Package scoring computes the privacy score of an extracted record.
// Scoring is deterministic and never fails: unknown values simply do not
// fire any rule and lower the confidence.
package scoring

import (
	"math"

	"evaluator/internal/model"
)

// Section weights of the composite score
const (
	WeightInRoom       = 0.25
	WeightBetweenRooms = 0.30
	WeightBetweenUnits = 0.45
)

// Section baselines before any rule fires
const (
	BaseInRoom          = 0.85
	BaseBetweenRooms    = 0.85
	SingleBedroomRooms  = 1.0
	BaseBetweenUnits    = 0.75
	MaxUnitBonus        = 0.12
	highConfidenceRatio = 0.8
	midConfidenceRatio  = 0.5
)

// Sections holds the unrounded, clamped section scores
type Sections struct {
	InRoom       float64
	BetweenRooms float64
	BetweenUnits float64
}

// Composite returns the weighted 0..1 score
func (s Sections) Composite() float64 {
	return s.InRoom*WeightInRoom + s.BetweenRooms*WeightBetweenRooms + s.BetweenUnits*WeightBetweenUnits
}

type evaluation struct {
	strengths []string
	concerns  []string
	known     int
	total     int
}

func (e *evaluation) strength(msg string) { e.strengths = append(e.strengths, msg) }
func (e *evaluation) concern(msg string)  { e.concerns = append(e.concerns, msg) }

// count adds one field to the confidence ratio
func (e *evaluation) count(set bool) {
	e.total++
	if set {
		e.known++
	}
}

func (e *evaluation) confidence() model.Confidence {
	ratio := 0.0
	if e.total > 0 {
		ratio = float64(e.known) / float64(e.total)
	}
	switch {
	case ratio >= highConfidenceRatio:
		return model.ConfidenceHigh
	case ratio >= midConfidenceRatio:
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}

// Score evaluates a record
func Score(r *model.Record) model.ScoreResult {
	res, _ := Evaluate(r)
	return res
}

// Evaluate scores a record and also returns the raw section scores
func Evaluate(r *model.Record) (model.ScoreResult, Sections) {
	if r == nil {
		r = &model.Record{}
	}
	room := r.InRoom
	if room == nil {
		room = &model.InRoom{}
	}
	rooms := r.BetweenRooms
	if rooms == nil {
		rooms = &model.BetweenRooms{}
	}
	units := r.BetweenUnits
	if units == nil {
		units = &model.BetweenUnits{}
	}

	e := &evaluation{}
	var s Sections
	s.InRoom = e.inRoom(room)
	s.BetweenRooms = e.betweenRooms(rooms)
	unitScore := e.betweenUnits(units)
	unitScore = e.attachments(unitScore, r.Attachments)
	unitScore = e.windowExposure(unitScore, room.WindowFacingSide, units)
	s.BetweenUnits = clamp(unitScore)

	res := model.ScoreResult{
		Score:      math.Round(s.Composite()*100) / 10,
		Confidence: e.confidence(),
		Breakdown: model.Breakdown{
			Scale:        model.BreakdownScale,
			InRoom:       round2(s.InRoom),
			BetweenRooms: round2(s.BetweenRooms),
			BetweenUnits: round2(s.BetweenUnits),
		},
		Explanation: model.Explanation{
			Strengths: nonNil(e.strengths),
			Concerns:  nonNil(e.concerns),
		},
	}
	return res, s
}

func (e *evaluation) inRoom(room *model.InRoom) float64 {
	e.count(room.RoomSize != nil)
	e.count(room.CeilingHeightFt != nil)
	e.count(room.WindowPlacement != nil)
	e.count(room.WindowFacingSide != nil)

	score := BaseInRoom
	if is(room.RoomSize, model.RoomSmall) {
		score -= 0.25
		e.concern("Small bedroom size reduces personal privacy")
	}
	if h := room.CeilingHeightFt; h != nil && *h <= 8 {
		score -= 0.15
		e.concern("Low ceiling height can feel more enclosed")
	}
	if is(room.WindowPlacement, model.WindowOnDoorWall) {
		score -= 0.25
		e.concern("Window on the same wall as the door reduces visual privacy")
	}
	return clamp(score)
}

func (e *evaluation) betweenRooms(rooms *model.BetweenRooms) float64 {
	e.count(rooms.HasMultipleBedrooms != nil)

	// a single bedroom has no between-room exposure and its details are not counted
	if is(rooms.HasMultipleBedrooms, false) {
		return SingleBedroomRooms
	}

	e.count(rooms.BedroomsShareWall != nil)
	e.count(rooms.BufferBetweenRooms != nil)
	e.count(rooms.WindowProximity != nil)

	score := BaseBetweenRooms
	if is(rooms.BedroomsShareWall, true) {
		score -= 0.35
		e.concern("Bedrooms sharing a wall reduces acoustic privacy")
	}

	if b := rooms.BufferBetweenRooms; b != nil {
		switch *b {
		case model.BufferSmallPassage:
			score -= 0.05
			e.concern("Only a small passage separates bedrooms, offering limited privacy buffering")
		case model.BufferLargeLobby:
			score += 0.12
			e.strength("Large lobby between bedrooms significantly improves privacy")
		case model.BufferBigHall:
			score += 0.18
			e.strength("Big hall between bedrooms offers strong visual and acoustic privacy")
		}
	}

	if w := rooms.WindowProximity; w != nil {
		switch *w {
		case model.WindowsCloseFacing:
			score -= 0.25
			e.concern("Bedroom windows close and facing each other allow sound and visual intrusion")
		case model.WindowsCloseNotFacing:
			score -= 0.12
			e.concern("Bedroom windows are close, which can still transmit sound")
		case model.WindowsFarApartFacing:
			score -= 0.08
			e.concern("Bedroom windows face each other even though they are far apart")
		case model.WindowsFarApartNotFacing:
			score += 0.05
			e.strength("Bedroom windows are well separated and not facing each other")
		}
	}
	return clamp(score)
}

// betweenUnits applies the open-space, community and entrance rules. Bonuses
// are capped, structural penalties are subtracted after the cap, and the
// result is clamped before attachment effects.
func (e *evaluation) betweenUnits(u *model.BetweenUnits) float64 {
	for _, v := range []bool{
		u.UnitType != nil,
		u.FrontOpenSpace != nil,
		u.SideAOpenSpace != nil,
		u.SideBOpenSpace != nil,
		u.BackOpenSpace != nil,
		u.IsInGatedSociety != nil,
		u.LayoutUniformity != nil,
		u.DoorDistance != nil,
		u.ApartmentEntryBuffer != nil,
	} {
		e.count(v)
	}

	score := BaseBetweenUnits
	bonus := 0.0
	structural := 0.0
	apartment := is(u.UnitType, model.UnitApartment)

	if apartment {
		score -= 0.05
		e.concern("Shared apartment living slightly reduces overall privacy")
	}

	if front := u.FrontOpenSpace; front != nil {
		switch {
		case *front == model.OpenAttached:
			// handled by attachment details
		case front.IsGap():
			structural += 0.15
			e.concern("Very narrow front gap provides limited privacy buffer")
		case *front == model.OpenNarrowRoad:
			score -= 0.12
			e.concern("Bedroom faces a narrow road, limiting privacy")
		case *front == model.OpenWideRoad:
			bonus += 0.03
			e.strength("Wide road in front provides some separation")
		case *front == model.OpenFrontYard:
			bonus += 0.06
			e.strength("Front yard provides a visual buffer from the street")
		}
	}

	// only the worst lateral side counts
	penaltyA, msgA := lateralPenalty(u.SideAOpenSpace)
	penaltyB, msgB := lateralPenalty(u.SideBOpenSpace)
	worst, msg := penaltyA, msgA
	if penaltyB > worst {
		worst, msg = penaltyB, msgB
	}
	switch {
	case worst > 0:
		structural += worst
		e.concern(msg)
	case worst < 0:
		score += math.Abs(worst)
		e.strength("Good side open space improves lateral privacy")
	}

	if back := u.BackOpenSpace; back != nil {
		switch {
		case *back == model.OpenAttached:
		case back.IsGap():
			structural += 0.15
			e.concern("Very narrow rear gap provides limited privacy buffer")
		case *back == model.OpenBackAlley || *back == model.OpenNarrowRoad:
			score -= 0.10
			e.concern("Rear alley or narrow road offers limited privacy separation")
		case *back == model.OpenBackRoad:
			score -= 0.05
			e.concern("Rear road reduces privacy despite some separation")
		case *back == model.OpenPrivateBackyard:
			bonus += 0.10
			e.strength("Private backyard significantly improves rear privacy")
		}
	}

	if is(u.IsInGatedSociety, true) {
		bonus += 0.07
		e.strength("Gated society improves privacy through controlled access")
	}

	if l := u.LayoutUniformity; l != nil {
		switch *l {
		case model.LayoutUniform:
			bonus += 0.05
			e.strength("Uniform surrounding layout reduces visual and noise intrusion")
		case model.LayoutMostlyUniform:
			bonus += 0.02
			e.strength("Mostly uniform surrounding layout offers consistency")
		case model.LayoutMixed:
			score -= 0.04
			e.concern("Mixed surrounding layout can increase visual and noise exposure")
		case model.LayoutIrregular:
			score -= 0.08
			e.concern("Irregular surrounding layout can increase privacy intrusion")
		}
	}

	if apartment && u.DoorDistance != nil {
		switch *u.DoorDistance {
		case model.DoorsVeryClose:
			structural += 0.10
			e.concern("Very close apartment doors reduce corridor privacy")
		case model.DoorsModerate:
			score -= 0.03
			e.concern("Moderate distance between apartment doors limits separation")
		case model.DoorsFarApart:
			bonus += 0.05
			e.strength("Greater distance between apartment doors improves privacy")
		}
	}

	if apartment && u.ApartmentEntryBuffer != nil {
		switch *u.ApartmentEntryBuffer {
		case model.EntryDirectToRoom:
			structural += 0.22
			e.concern("Apartment entrance opening directly into a private room severely compromises privacy")
		case model.EntryFoyerToRoom:
			structural += 0.14
			e.concern("Small foyer before a private room provides limited privacy buffer")
		case model.EntryDirectToHall:
			bonus += 0.03
			e.strength("Apartment entrance opening into the hall avoids direct exposure of private rooms")
		case model.EntryFoyerToHall:
			bonus += 0.08
			e.strength("Foyer separating entrance from living areas strongly improves privacy from common corridors")
		}
	}

	score += math.Min(bonus, MaxUnitBonus)
	score -= structural
	return clamp(score)
}

// lateralPenalty is positive for a structural problem and negative for a
// benefit on one side
func lateralPenalty(v *model.OpenSpace) (float64, string) {
	if v == nil {
		return 0, ""
	}
	switch *v {
	case model.OpenTightServiceGap, model.OpenNarrowGap:
		return 0.12, "Very narrow side gap provides limited privacy"
	case model.OpenSideAlley, model.OpenNarrowRoad, model.OpenSmallSideYard:
		return -0.02, ""
	case model.OpenSideRoad, model.OpenLargeSideYard:
		return -0.06, ""
	}
	return 0, ""
}

// attachments applies the per-side wall effects in side order
func (e *evaluation) attachments(score float64, details map[model.Side]*model.Attachment) float64 {
	for _, side := range model.Sides {
		a := details[side]
		if a == nil {
			continue
		}
		penalty, strength, concern := attachmentEffect(a.Owner, a.SpaceType)
		score -= penalty
		if strength != "" {
			e.strength(strength)
		}
		if concern != "" {
			e.concern(concern)
		}
	}
	return score
}

func attachmentEffect(owner *model.Owner, space *model.SpaceType) (penalty float64, strength, concern string) {
	if owner == nil {
		return 0, "", ""
	}
	switch *owner {
	case model.OwnerNeighborUnit:
		if space == nil {
			return 0.14, "", "Wall attached to neighboring unit reduces privacy"
		}
		switch *space {
		case model.SpaceBedroom:
			return 0.15, "", "Bedroom wall attached to a neighboring bedroom severely reduces acoustic privacy"
		case model.SpaceNonBedroom:
			return 0.10, "", "Bedroom wall attached to a neighboring unit reduces privacy"
		case model.SpaceCommonArea:
			return 0.08, "", "Bedroom wall adjacent to a shared common corridor or lobby reduces privacy"
		}
	case model.OwnerOwnUnit:
		if space == nil {
			return 0, "", ""
		}
		switch *space {
		case model.SpaceBedroom:
			return 0, "", "Bedrooms within the same apartment sharing walls reduce internal privacy"
		case model.SpaceNonBedroom:
			return 0, "Bedroom wall attached to another room within the apartment avoids external noise intrusion", ""
		case model.SpaceCommonArea:
			return 0, "", "Bedroom wall adjacent to an internal lobby or corridor slightly reduces privacy"
		}
	}
	return 0, "", ""
}

// windowExposure adjusts the unit score for what the bedroom window looks out on
func (e *evaluation) windowExposure(score float64, facing *model.WindowSide, u *model.BetweenUnits) float64 {
	if facing == nil {
		return score
	}

	switch *facing {
	case model.WindowFacesFront:
		front := u.FrontOpenSpace
		if front == nil {
			return score
		}
		switch {
		case *front == model.OpenAttached:
			e.concern("Front window indicated despite attached structure; configuration may be inconsistent")
		case *front == model.OpenFrontYard:
			score += 0.05
			e.strength("Front-facing window benefits from a front yard")
		case *front == model.OpenWideRoad:
			score += 0.02
		case *front == model.OpenNarrowRoad:
			score -= 0.14
			e.concern("Front-facing window exposed to a narrow road")
		case front.IsGap():
			score -= 0.18
			e.concern("Front-facing window opens into a very narrow gap")
		}

	case model.WindowFacesBack:
		back := u.BackOpenSpace
		if back == nil {
			return score
		}
		switch {
		case *back == model.OpenAttached:
			e.concern("Back window indicated despite attached structure; configuration may be inconsistent")
		case *back == model.OpenBackRoad:
			score += 0.02
		case *back == model.OpenPrivateBackyard:
			score += 0.08
			e.strength("Back-facing window overlooking a private backyard improves privacy")
		case back.IsGap():
			score -= 0.18
			e.concern("Back-facing window opening into a narrow gap reduces privacy")
		case *back == model.OpenBackAlley || *back == model.OpenNarrowRoad:
			score -= 0.14
			e.concern("Back-facing window exposed to a rear road or alley reduces privacy")
		}

	case model.WindowFacesSide:
		a, b := u.SideAOpenSpace, u.SideBOpenSpace
		open := 0
		attached := 0
		for _, v := range []*model.OpenSpace{a, b} {
			switch {
			case v == nil:
			case *v == model.OpenAttached:
				attached++
			default:
				open++
			}
		}
		if open == 0 {
			if attached == 2 {
				e.concern("Side window indicated although both sides are attached; configuration may be inconsistent")
			}
			return score
		}

		effA, effB := sideWindowEffect(a), sideWindowEffect(b)
		// the window is assumed to face the better side when one helps
		if effA > 0 || effB > 0 {
			score += math.Max(effA, effB)
			e.strength("Side-facing window benefits from open space along the side")
			return score
		}
		worst := math.Min(effA, effB)
		score += worst
		if worst < 0 {
			e.concern("Side-facing window exposed to limited side clearance reduces privacy")
		}
	}
	return score
}

func sideWindowEffect(v *model.OpenSpace) float64 {
	if v == nil {
		return 0
	}
	switch *v {
	case model.OpenSideYard, model.OpenLargeSideYard, model.OpenSideRoad:
		return 0.06
	case model.OpenSideAlley, model.OpenNarrowRoad, model.OpenSmallSideYard:
		return -0.05
	case model.OpenNarrowGap:
		return -0.14
	case model.OpenTightServiceGap:
		return -0.18
	}
	return 0
}

func is[T comparable](p *T, v T) bool {
	return p != nil && *p == v
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
