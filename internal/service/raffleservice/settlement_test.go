package raffleservice

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/rafflehub/internal/domain"
	"github.com/GlebRadaev/rafflehub/internal/service/walletservice"
	"github.com/GlebRadaev/rafflehub/pkg/validate"
)

func TestSettleInstant(t *testing.T) {
	tests := []struct {
		name        string
		price       int64
		status      domain.RaffleStatus
		funds       int64
		sel         Selection
		taken       []int
		expected    []int
		expectedErr error
	}{
		{
			name:     "Random numbers paid from wallet",
			price:    2,
			funds:    10,
			sel:      Selection{Quantity: 3},
			expected: []int{1, 2, 3},
		},
		{
			name:     "Explicit numbers are sorted",
			price:    2,
			funds:    10,
			sel:      Selection{Quantity: 2, Numbers: []int{7, 3}},
			expected: []int{3, 7},
		},
		{
			name:     "Random skips taken numbers",
			price:    1,
			funds:    10,
			sel:      Selection{Quantity: 2},
			taken:    []int{1, 2},
			expected: []int{3, 4},
		},
		{
			name:        "Balance does not cover price times quantity",
			price:       5,
			funds:       10,
			sel:         Selection{Quantity: 3},
			expectedErr: walletservice.ErrInsufficientFunds,
		},
		{
			name:        "No wallet yet",
			price:       1,
			sel:         Selection{Quantity: 1},
			expectedErr: walletservice.ErrInsufficientFunds,
		},
		{
			name:        "Paused raffle",
			price:       1,
			status:      domain.RafflePaused,
			funds:       10,
			sel:         Selection{Quantity: 1},
			expectedErr: ErrRaffleNotActive,
		},
		{
			name:        "Closed raffle",
			price:       1,
			status:      domain.RaffleClosed,
			funds:       10,
			sel:         Selection{Quantity: 1},
			expectedErr: ErrRaffleNotActive,
		},
		{
			name:        "Explicit taken number",
			price:       1,
			funds:       10,
			sel:         Selection{Quantity: 2, Numbers: []int{5, 4}},
			taken:       []int{4},
			expectedErr: ErrInvalidNumber,
		},
		{
			name:        "Zero quantity",
			price:       1,
			funds:       10,
			sel:         Selection{},
			expectedErr: ErrInvalidQuantity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewMock(t)
			f.svc.intn = first
			ctx := context.Background()
			status := tt.status
			if status == "" {
				status = domain.RaffleActive
			}
			raffle := f.raffle(t, tt.price, 10, status)
			if len(tt.taken) > 0 {
				require.NoError(t, f.store.Records().Create(ctx, &domain.Record{ID: uuid.NewString(), RaffleID: raffle.ID, OwnerID: "other", Numbers: tt.taken}))
			}
			if tt.funds > 0 {
				f.fund(t, "owner-1", tt.funds)
			}
			require.NoError(t, f.store.Owners().Upsert(ctx, &domain.Owner{ID: "owner-1", FirstName: "Ana", LastName: "Rojas", Cedula: "V-1"}))
			soldBefore := len(f.sold(t, raffle.ID))

			var notified domain.Receipt
			if tt.expectedErr == nil {
				f.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Do(func(_ context.Context, r domain.Receipt) {
					notified = r
				})
			}

			rec, err := f.svc.SettleInstant(ctx, raffle.ID, "owner-1", tt.sel)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, rec)
				assert.True(t, f.balance(t, "owner-1").Equal(decimal.NewFromInt(tt.funds)), "wallet must be untouched")
				assert.Len(t, f.sold(t, raffle.ID), soldBefore)
				assert.Equal(t, 1, f.stored(t, raffle.ID).NextTicket)
				entries, _ := f.store.Activity().List(ctx, raffle.ID, 10)
				assert.Empty(t, entries)
				return
			}

			require.NoError(t, err)
			amount := decimal.NewFromInt(tt.price * int64(len(tt.expected)))
			assert.Equal(t, tt.expected, rec.Numbers)
			assert.Equal(t, domain.ChannelInstant, rec.Channel)
			assert.True(t, rec.Amount.Equal(amount))
			assert.Equal(t, domain.Buyer{FirstName: "Ana", LastName: "Rojas", Cedula: "V-1"}, rec.Buyer)
			assert.True(t, validate.IsLuna(rec.ReceiptCode))
			assert.Nil(t, rec.RequestID)

			assert.True(t, f.balance(t, "owner-1").Equal(decimal.NewFromInt(tt.funds).Sub(amount)))
			sold := len(f.sold(t, raffle.ID))
			assert.Equal(t, soldBefore+len(tt.expected), sold)
			assert.Equal(t, sold+1, f.stored(t, raffle.ID).NextTicket)

			assert.Equal(t, rec, notified.Record)
			assert.Equal(t, raffle.ID, notified.Raffle.ID)
			assert.Equal(t, "owner-1", notified.Owner.ID)

			entries, _ := f.store.Activity().List(ctx, raffle.ID, 10)
			require.Len(t, entries, 1)
			assert.Equal(t, domain.ActionRafflePurchase, entries[0].Action)
		})
	}
}

func TestSettleInstant_BuyerSnapshotIsFrozen(t *testing.T) {
	f := NewMock(t)
	ctx := context.Background()
	raffle := f.raffle(t, 1, 10, domain.RaffleActive)
	f.fund(t, "owner-1", 5)
	require.NoError(t, f.store.Owners().Upsert(ctx, &domain.Owner{ID: "owner-1", FirstName: "Ana"}))
	f.notifier.EXPECT().Notify(gomock.Any(), gomock.Any())

	rec, err := f.svc.SettleInstant(ctx, raffle.ID, "owner-1", Selection{Quantity: 1})
	require.NoError(t, err)
	require.NoError(t, f.store.Owners().Upsert(ctx, &domain.Owner{ID: "owner-1", FirstName: "Maria"}))

	stored, err := f.store.Records().FindByReceipt(ctx, rec.ReceiptCode)
	require.NoError(t, err)
	assert.Equal(t, "Ana", stored.Buyer.FirstName)
}

func TestSettleInstant_ExhaustsPoolAtCapacity(t *testing.T) {
	f := NewMock(t)
	ctx := context.Background()
	raffle := f.raffle(t, 1, 10, domain.RaffleActive)
	f.fund(t, "owner-1", 100)
	f.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Times(10)

	for i := 0; i < 10; i++ {
		_, err := f.svc.SettleInstant(ctx, raffle.ID, "owner-1", Selection{Quantity: 1})
		require.NoError(t, err)
	}

	_, err := f.svc.SettleInstant(ctx, raffle.ID, "owner-1", Selection{Quantity: 1})
	assert.ErrorIs(t, err, ErrInsufficientAvailability)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, f.sold(t, raffle.ID).sorted())
	assert.True(t, f.balance(t, "owner-1").Equal(decimal.NewFromInt(90)))

	p, err := f.svc.Progress(ctx, raffle.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, p.Sold)
	assert.Equal(t, 0, p.Remaining)
	assert.Equal(t, 1.0, p.Fraction)
}

func TestSettleInstant_ConcurrentBuyersNeverShareNumbers(t *testing.T) {
	const (
		buyers   = 60
		quantity = 5
		capacity = buyers * quantity
	)
	f := NewMock(t)
	ctx := context.Background()
	raffle := f.raffle(t, 1, capacity, domain.RaffleActive)
	for i := 0; i < buyers; i++ {
		f.fund(t, fmt.Sprintf("owner-%d", i), quantity)
	}
	f.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Times(buyers)

	var wg sync.WaitGroup
	results := make([][]int, buyers)
	errs := make([]error, buyers)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec, err := f.svc.SettleInstant(ctx, raffle.ID, fmt.Sprintf("owner-%d", i), Selection{Quantity: quantity})
			errs[i] = err
			if rec != nil {
				results[i] = rec.Numbers
			}
		}(i)
	}
	wg.Wait()

	seen := map[int]int{}
	for i := 0; i < buyers; i++ {
		require.NoError(t, errs[i])
		require.Len(t, results[i], quantity)
		for _, n := range results[i] {
			if prev, dup := seen[n]; dup {
				t.Fatalf("number %d granted to buyers %d and %d", n, prev, i)
			}
			seen[n] = i
		}
	}
	assert.Len(t, seen, capacity)

	records, err := f.store.Records().FindByRaffle(ctx, raffle.ID)
	require.NoError(t, err)
	assert.Len(t, records, buyers)
	assert.Len(t, f.sold(t, raffle.ID), capacity)
	assert.Equal(t, capacity+1, f.stored(t, raffle.ID).NextTicket)

	_, err = f.svc.SettleInstant(ctx, raffle.ID, "owner-0", Selection{Quantity: 1})
	assert.ErrorIs(t, err, ErrInsufficientAvailability)
}

func TestSettleInstant_ConcurrentExplicitSameNumber(t *testing.T) {
	const buyers = 20
	f := NewMock(t)
	ctx := context.Background()
	raffle := f.raffle(t, 1, 100, domain.RaffleActive)
	for i := 0; i < buyers; i++ {
		f.fund(t, fmt.Sprintf("owner-%d", i), 1)
	}
	f.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Times(1)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		wins    int
		invalid int
	)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.svc.SettleInstant(ctx, raffle.ID, fmt.Sprintf("owner-%d", i), Selection{Quantity: 1, Numbers: []int{42}})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case assert.ErrorIs(t, err, ErrInvalidNumber):
				invalid++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, buyers-1, invalid)
	assert.Equal(t, []int{42}, f.sold(t, raffle.ID).sorted())
}

func TestAllocate_DoesNotCommit(t *testing.T) {
	f := NewMock(t)
	ctx := context.Background()
	raffle := f.raffle(t, 1, 10, domain.RaffleActive)
	paused := f.raffle(t, 1, 10, domain.RafflePaused)

	numbers, err := f.svc.Allocate(ctx, raffle.ID, Selection{Quantity: 4})
	require.NoError(t, err)
	assert.Len(t, numbers, 4)
	assert.Empty(t, f.sold(t, raffle.ID))

	_, err = f.svc.Allocate(ctx, paused.ID, Selection{Quantity: 1})
	assert.ErrorIs(t, err, ErrRaffleNotActive)

	_, err = f.svc.Allocate(ctx, "nope", Selection{Quantity: 1})
	assert.ErrorIs(t, err, ErrRaffleNotFound)
}

func TestSubmitManual(t *testing.T) {
	tests := []struct {
		name        string
		status      domain.RaffleStatus
		quantity    int
		expectedErr error
	}{
		{name: "Pending request created", quantity: 4},
		{name: "Whole remaining pool", quantity: 8},
		{name: "Paused raffle", status: domain.RafflePaused, quantity: 1, expectedErr: ErrRaffleNotActive},
		{name: "Zero quantity", quantity: 0, expectedErr: ErrInvalidQuantity},
		{name: "More than available", quantity: 9, expectedErr: ErrInsufficientAvailability},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewMock(t)
			ctx := context.Background()
			status := tt.status
			if status == "" {
				status = domain.RaffleActive
			}
			raffle := f.raffle(t, 1, 10, status)
			require.NoError(t, f.store.Records().Create(ctx, &domain.Record{ID: uuid.NewString(), RaffleID: raffle.ID, Numbers: []int{1, 2}}))

			req, err := f.svc.SubmitManual(ctx, raffle.ID, "owner-1", ManualInput{Quantity: tt.quantity, Proof: "proof.png", Reference: "PM-1", Note: "pago movil"})
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, req)
				pending, _ := f.store.Requests().FindByRaffle(ctx, raffle.ID)
				assert.Empty(t, pending)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, domain.RequestPending, req.Status)
			assert.Equal(t, tt.quantity, req.Quantity)
			assert.Equal(t, "PM-1", req.Reference)
			assert.Empty(t, req.Numbers)
			assert.Len(t, f.sold(t, raffle.ID), 2, "submission reserves nothing")

			stored, err := f.store.Requests().FindByID(ctx, req.ID)
			require.NoError(t, err)
			assert.Equal(t, req, stored)
		})
	}
}

func TestSubmitManual_UnknownRaffle(t *testing.T) {
	f := NewMock(t)

	_, err := f.svc.SubmitManual(context.Background(), uuid.NewString(), "owner-1", ManualInput{Quantity: 1})
	assert.ErrorIs(t, err, ErrRaffleNotFound)
}

func TestResolveManual_RejectThenApprove(t *testing.T) {
	f := NewMock(t)
	ctx := context.Background()
	raffle := f.raffle(t, 3, 20, domain.RaffleActive)
	require.NoError(t, f.store.Records().Create(ctx, &domain.Record{ID: uuid.NewString(), RaffleID: raffle.ID, OwnerID: "early", Numbers: []int{1, 2, 3, 4, 5}}))
	require.NoError(t, f.store.Owners().Upsert(ctx, &domain.Owner{ID: "owner-2", FirstName: "Luis"}))

	rejected, err := f.svc.SubmitManual(ctx, raffle.ID, "owner-1", ManualInput{Quantity: 4})
	require.NoError(t, err)
	approved, err := f.svc.SubmitManual(ctx, raffle.ID, "owner-2", ManualInput{Quantity: 4})
	require.NoError(t, err)
	before := f.sold(t, raffle.ID).sorted()

	rec, req, err := f.svc.ResolveManual(ctx, rejected.ID, "admin-1", DecisionReject)
	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.Equal(t, domain.RequestRejected, req.Status)
	assert.Equal(t, "admin-1", *req.ResolvedBy)
	assert.Equal(t, now, *req.ResolvedAt)
	assert.Equal(t, before, f.sold(t, raffle.ID).sorted())

	f.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Do(func(_ context.Context, r domain.Receipt) {
		assert.Equal(t, domain.ChannelManual, r.Record.Channel)
		assert.Equal(t, "Luis", r.Owner.FirstName)
	})
	rec, req, err = f.svc.ResolveManual(ctx, approved.ID, "admin-1", DecisionApprove)
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, domain.RequestApproved, req.Status)
	assert.Equal(t, rec.Numbers, req.Numbers)
	assert.Equal(t, rec.ID, *req.RecordID)
	assert.Equal(t, approved.ID, *rec.RequestID)
	assert.Equal(t, domain.ChannelManual, rec.Channel)
	assert.True(t, rec.Amount.Equal(decimal.NewFromInt(12)))
	assert.Equal(t, "Luis", rec.Buyer.FirstName)
	assert.Len(t, rec.Numbers, 4)
	for _, n := range rec.Numbers {
		assert.NotContains(t, before, n)
	}

	assert.Len(t, f.sold(t, raffle.ID), 9)
	assert.Equal(t, 10, f.stored(t, raffle.ID).NextTicket)
	assert.True(t, f.balance(t, "owner-2").IsZero(), "manual approval never touches the wallet")

	stored, _ := f.store.Requests().FindByID(ctx, rejected.ID)
	assert.Equal(t, domain.RequestRejected, stored.Status)
	assert.Empty(t, stored.Numbers)
}

func TestResolveManual_AlreadyProcessed(t *testing.T) {
	f := NewMock(t)
	ctx := context.Background()
	raffle := f.raffle(t, 1, 10, domain.RaffleActive)
	req, err := f.svc.SubmitManual(ctx, raffle.ID, "owner-1", ManualInput{Quantity: 2})
	require.NoError(t, err)
	f.notifier.EXPECT().Notify(gomock.Any(), gomock.Any())

	_, _, err = f.svc.ResolveManual(ctx, req.ID, "admin-1", DecisionApprove)
	require.NoError(t, err)

	for _, d := range []Decision{DecisionApprove, DecisionReject} {
		_, _, err = f.svc.ResolveManual(ctx, req.ID, "admin-1", d)
		assert.ErrorIs(t, err, ErrRequestAlreadyProcessed)
	}
	assert.Len(t, f.sold(t, raffle.ID), 2)
}

func TestResolveManual_ConcurrentWithInstantSettlement(t *testing.T) {
	const (
		buyers   = 40
		quantity = 3
		capacity = 2 * buyers * quantity
	)
	f := NewMock(t)
	ctx := context.Background()
	raffle := f.raffle(t, 1, capacity, domain.RaffleActive)

	requests := make([]*domain.ManualRequest, buyers)
	for i := 0; i < buyers; i++ {
		f.fund(t, fmt.Sprintf("instant-%d", i), quantity)
		req, err := f.svc.SubmitManual(ctx, raffle.ID, fmt.Sprintf("manual-%d", i), ManualInput{Quantity: quantity})
		require.NoError(t, err)
		requests[i] = req
	}
	f.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Times(2 * buyers)

	var wg sync.WaitGroup
	instantErrs := make([]error, buyers)
	manualErrs := make([]error, buyers)
	for i := 0; i < buyers; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, instantErrs[i] = f.svc.SettleInstant(ctx, raffle.ID, fmt.Sprintf("instant-%d", i), Selection{Quantity: quantity})
		}(i)
		go func(i int) {
			defer wg.Done()
			_, _, manualErrs[i] = f.svc.ResolveManual(ctx, requests[i].ID, "admin-1", DecisionApprove)
		}(i)
	}
	wg.Wait()

	for i := 0; i < buyers; i++ {
		require.NoError(t, instantErrs[i])
		require.NoError(t, manualErrs[i])
	}

	records, err := f.store.Records().FindByRaffle(ctx, raffle.ID)
	require.NoError(t, err)
	require.Len(t, records, 2*buyers)
	seen := map[int]string{}
	channels := map[domain.Channel]int{}
	for _, rec := range records {
		channels[rec.Channel]++
		for _, n := range rec.Numbers {
			if prev, dup := seen[n]; dup {
				t.Fatalf("number %d granted to %s and %s", n, prev, rec.OwnerID)
			}
			seen[n] = rec.OwnerID
		}
	}
	assert.Len(t, seen, capacity)
	assert.Equal(t, buyers, channels[domain.ChannelInstant])
	assert.Equal(t, buyers, channels[domain.ChannelManual])
	assert.Len(t, f.sold(t, raffle.ID), capacity)

	for _, req := range requests {
		stored, err := f.store.Requests().FindByID(ctx, req.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.RequestApproved, stored.Status)
		assert.Len(t, stored.Numbers, quantity)
	}
}

func TestResolveManual_ConcurrentApprovalsOfSameRequest(t *testing.T) {
	const admins = 20
	f := NewMock(t)
	ctx := context.Background()
	raffle := f.raffle(t, 1, 50, domain.RaffleActive)
	req, err := f.svc.SubmitManual(ctx, raffle.ID, "owner-1", ManualInput{Quantity: 2})
	require.NoError(t, err)
	f.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Times(1)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		approved  int
		processed int
	)
	for i := 0; i < admins; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, err := f.svc.ResolveManual(ctx, req.ID, fmt.Sprintf("admin-%d", i), DecisionApprove)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				approved++
			case assert.ErrorIs(t, err, ErrRequestAlreadyProcessed):
				processed++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, approved)
	assert.Equal(t, admins-1, processed)
	records, err := f.store.Records().FindByRaffle(ctx, raffle.ID)
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Len(t, f.sold(t, raffle.ID), 2)
}

func TestResolveManual_ApprovalRechecksAvailability(t *testing.T) {
	f := NewMock(t)
	ctx := context.Background()
	raffle := f.raffle(t, 1, 5, domain.RaffleActive)
	f.fund(t, "buyer", 3)

	req, err := f.svc.SubmitManual(ctx, raffle.ID, "owner-1", ManualInput{Quantity: 3})
	require.NoError(t, err)

	f.notifier.EXPECT().Notify(gomock.Any(), gomock.Any())
	_, err = f.svc.SettleInstant(ctx, raffle.ID, "buyer", Selection{Quantity: 3})
	require.NoError(t, err)

	_, _, err = f.svc.ResolveManual(ctx, req.ID, "admin-1", DecisionApprove)
	assert.ErrorIs(t, err, ErrInsufficientAvailability)

	stored, _ := f.store.Requests().FindByID(ctx, req.ID)
	assert.Equal(t, domain.RequestPending, stored.Status)
	assert.Len(t, f.sold(t, raffle.ID), 3)

	_, req, err = f.svc.ResolveManual(ctx, req.ID, "admin-1", DecisionReject)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestRejected, req.Status)
}

func TestResolveManual_PausedRaffle(t *testing.T) {
	f := NewMock(t)
	ctx := context.Background()
	raffle := f.raffle(t, 1, 10, domain.RaffleActive)
	req, err := f.svc.SubmitManual(ctx, raffle.ID, "owner-1", ManualInput{Quantity: 1})
	require.NoError(t, err)

	paused := domain.RafflePaused
	_, err = f.svc.Update(ctx, admin(), raffle.ID, RaffleUpdate{Status: &paused})
	require.NoError(t, err)

	_, _, err = f.svc.ResolveManual(ctx, req.ID, "admin-1", DecisionApprove)
	assert.ErrorIs(t, err, ErrRaffleNotActive)
	stored, _ := f.store.Requests().FindByID(ctx, req.ID)
	assert.Equal(t, domain.RequestPending, stored.Status)
}

func TestResolveManual_BadInput(t *testing.T) {
	f := NewMock(t)
	ctx := context.Background()

	tests := []struct {
		name        string
		requestID   string
		decision    Decision
		expectedErr error
	}{
		{name: "Unknown decision", requestID: uuid.NewString(), decision: "maybe", expectedErr: ErrInvalidDecision},
		{name: "Malformed id", requestID: "42", decision: DecisionApprove, expectedErr: ErrRequestNotFound},
		{name: "Unknown request", requestID: uuid.NewString(), decision: DecisionReject, expectedErr: ErrRequestNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, req, err := f.svc.ResolveManual(ctx, tt.requestID, "admin-1", tt.decision)
			assert.ErrorIs(t, err, tt.expectedErr)
			assert.Nil(t, rec)
			assert.Nil(t, req)
		})
	}
}
