//go:build unit

package booking_test

import (
	"testing"

	"guesthouse-booking/internal/domain/booking"
	"guesthouse-booking/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type factoryCase struct {
	name   string
	mutate func(*builder.BookingBuilder)
	errIs  error
}

func TestFactoryCreateBooking(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		actual, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.Equal(t, booking.StatusPending, actual.Status())
		assert.False(t, actual.CreatedAt().IsZero())
		// 3 nights at the standard nightly rate of 1500
		assert.Equal(t, int64(4500), actual.TotalPrice().Cents())
	})

	t.Run("guest validation", func(t *testing.T) {
		runFactoryCases(t, []factoryCase{
			{
				name:   "zero guests",
				mutate: func(b *builder.BookingBuilder) { b.WithGuests(0) },
				errIs:  booking.ErrInvalidGuestCount,
			},
			{
				name:   "negative guests",
				mutate: func(b *builder.BookingBuilder) { b.WithGuests(-1) },
				errIs:  booking.ErrInvalidGuestCount,
			},
			{
				name:   "single guest",
				mutate: func(b *builder.BookingBuilder) { b.WithGuests(1) },
			},
			{
				name:   "guests at room capacity",
				mutate: func(b *builder.BookingBuilder) { b.WithGuests(2) },
			},
			{
				name:   "guests above room capacity",
				mutate: func(b *builder.BookingBuilder) { b.WithGuests(3) },
				errIs:  booking.ErrCapacityExceeded,
			},
			{
				name: "family suite accommodates five",
				mutate: func(b *builder.BookingBuilder) {
					b.Room.AsFamily()
					b.WithGuests(5)
				},
			},
		})
	})

	t.Run("pricing", func(t *testing.T) {
		t.Run("nights times nightly rate", func(t *testing.T) {
			b := builder.NewBookingBuilder()
			b.Room.AsDeluxe()
			b.WithGuests(3)

			actual, err := b.BuildDomain()
			require.NoError(t, err)
			assert.Equal(t, int64(3*2500), actual.TotalPrice().Cents())
		})

		t.Run("positive override replaces the computed price", func(t *testing.T) {
			actual, err := builder.NewBookingBuilder().WithPriceOverride(9900).BuildDomain()
			require.NoError(t, err)
			assert.Equal(t, int64(9900), actual.TotalPrice().Cents())
		})

		t.Run("zero override is ignored", func(t *testing.T) {
			actual, err := builder.NewBookingBuilder().WithPriceOverride(0).BuildDomain()
			require.NoError(t, err)
			assert.Equal(t, int64(4500), actual.TotalPrice().Cents())
		})

		t.Run("negative override is ignored", func(t *testing.T) {
			actual, err := builder.NewBookingBuilder().WithPriceOverride(-100).BuildDomain()
			require.NoError(t, err)
			assert.Equal(t, int64(4500), actual.TotalPrice().Cents())
		})
	})

	t.Run("bookings get distinct IDs", func(t *testing.T) {
		first, err1 := builder.NewBookingBuilder().BuildDomain()
		second, err2 := builder.NewBookingBuilder().BuildDomain()

		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.NotEqual(t, first.ID(), second.ID())
	})
}

func runFactoryCases(t *testing.T, cases []factoryCase) {
	t.Helper()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			actual, err := builder.NewBookingBuilder().With(c.mutate).BuildDomain()

			if c.errIs == nil {
				require.NoError(t, err)
				require.NotNil(t, actual)
			} else {
				require.Nil(t, actual)
				require.ErrorIs(t, err, c.errIs)
			}
		})
	}
}
