package booking

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// StayPeriod is the half-open interval [checkIn, checkOut): checkout day is
// exclusive, so a stay ending on a day and another starting the same day can
// share the room.
type StayPeriod struct {
	checkIn  time.Time
	checkOut time.Time
}

func NewStayPeriod(checkIn, checkOut time.Time) (StayPeriod, error) {
	if checkIn.IsZero() || checkOut.IsZero() {
		return StayPeriod{}, errors.New("check-in and check-out are required")
	}
	if !checkIn.Before(checkOut) {
		return StayPeriod{}, errors.New("check-in must be before check-out")
	}

	return StayPeriod{
		checkIn:  checkIn,
		checkOut: checkOut,
	}, nil
}

func (p StayPeriod) CheckIn() time.Time {
	return p.checkIn
}

func (p StayPeriod) CheckOut() time.Time {
	return p.checkOut
}

func (p StayPeriod) Duration() time.Duration {
	return p.checkOut.Sub(p.checkIn)
}

// Nights rounds partial nights up, matching how the front desk bills a stay.
func (p StayPeriod) Nights() int {
	return int(math.Ceil(p.Duration().Hours() / 24))
}

// Overlaps reports whether two half-open periods intersect. Touching periods
// (one's check-out equals the other's check-in) do not overlap.
func (p StayPeriod) Overlaps(other StayPeriod) bool {
	return p.checkIn.Before(other.checkOut) && other.checkIn.Before(p.checkOut)
}

func (p StayPeriod) ToTstzrange() string {
	return fmt.Sprintf("[%s,%s)", p.checkIn.Format(time.RFC3339), p.checkOut.Format(time.RFC3339))
}

type Money struct {
	cents int64
}

func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, ErrNegativePrice
	}
	return Money{cents: cents}, nil
}

func (m Money) Cents() int64 {
	return m.cents
}

type Note struct {
	value string
}

func NewNote(value string) Note {
	return Note{value: value}
}

func (n Note) String() string {
	return n.value
}

func (n Note) IsEmpty() bool {
	return n.value == ""
}
