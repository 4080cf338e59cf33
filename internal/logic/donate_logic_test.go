package logic

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

type transferCall struct {
	from   common.Address
	to     common.Address
	amount *big.Int
}

// fakeTransferer 记录调用的假支付实现
type fakeTransferer struct {
	mu    sync.Mutex
	err   error
	calls []transferCall
}

func (f *fakeTransferer) Transfer(ctx context.Context, from, to common.Address, amount *big.Int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, transferCall{from: from, to: to, amount: new(big.Int).Set(amount)})
	return nil
}

func (f *fakeTransferer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// newDonateFixture 组装一套共享存储的活动和捐款逻辑
func newDonateFixture(t *testing.T) (*CampaignLogic, *DonateLogic, *fakeClock, *fakeTransferer) {
	t.Helper()
	s := newTestStore(t)
	clk := newFakeClock(testNow)
	transferer := &fakeTransferer{}
	return NewCampaignLogic(s, clk), NewDonateLogic(s, clk, transferer), clk, transferer
}

func TestDonate(t *testing.T) {
	campaignLogic, donateLogic, _, transferer := newDonateFixture(t)

	id, err := campaignLogic.CreateCampaign(testOwner, "标题", "", "",
		big.NewInt(1_000_000_000), testNow+100_000)
	if err != nil {
		t.Fatalf("CreateCampaign: %v", err)
	}

	amount := big.NewInt(100_000)
	if err := donateLogic.Donate(context.Background(), id, testDonor, amount); err != nil {
		t.Fatalf("Donate: %v", err)
	}

	campaign, err := campaignLogic.GetCampaign(id)
	if err != nil {
		t.Fatalf("GetCampaign: %v", err)
	}
	if campaign.AmountCollected.Cmp(amount) != 0 {
		t.Errorf("amount collected = %s, want %s", campaign.AmountCollected, amount)
	}
	if len(campaign.Donators) != 1 || campaign.Donators[0] != testDonor {
		t.Errorf("donators = %v, want [%s]", campaign.Donators, testDonor.Hex())
	}
	if len(campaign.Donations) != 1 || campaign.Donations[0].Cmp(amount) != 0 {
		t.Errorf("donations = %v, want [%s]", campaign.Donations, amount)
	}

	// 划转从捐款人到发起人，只调用一次
	if transferer.callCount() != 1 {
		t.Fatalf("transfer calls = %d, want 1", transferer.callCount())
	}
	call := transferer.calls[0]
	if call.from != testDonor || call.to != testOwner || call.amount.Cmp(amount) != 0 {
		t.Errorf("transfer call = %+v", call)
	}
}

func TestDonateSelfDonation(t *testing.T) {
	campaignLogic, donateLogic, _, transferer := newDonateFixture(t)

	id, err := campaignLogic.CreateCampaign(testOwner, "标题", "", "",
		big.NewInt(1_000_000_000), testNow+100_000)
	if err != nil {
		t.Fatalf("CreateCampaign: %v", err)
	}
	if err := donateLogic.Donate(context.Background(), id, testDonor, big.NewInt(100_000)); err != nil {
		t.Fatalf("Donate: %v", err)
	}

	err = donateLogic.Donate(context.Background(), id, testOwner, big.NewInt(50))
	if !errors.Is(err, ErrSelfDonation) {
		t.Fatalf("err = %v, want ErrSelfDonation", err)
	}

	// 记录保持上一笔捐款后的状态
	campaign, err := campaignLogic.GetCampaign(id)
	if err != nil {
		t.Fatalf("GetCampaign: %v", err)
	}
	if len(campaign.Donators) != 1 {
		t.Errorf("donators = %d, want 1", len(campaign.Donators))
	}
	if campaign.AmountCollected.Cmp(big.NewInt(100_000)) != 0 {
		t.Errorf("amount collected = %s, want 100000", campaign.AmountCollected)
	}
	if transferer.callCount() != 1 {
		t.Errorf("transfer calls = %d, want 1", transferer.callCount())
	}
}

func TestDonateDeadlinePassed(t *testing.T) {
	campaignLogic, donateLogic, clk, transferer := newDonateFixture(t)

	id, err := campaignLogic.CreateCampaign(testOwner, "标题", "", "",
		big.NewInt(1000), testNow+100)
	if err != nil {
		t.Fatalf("CreateCampaign: %v", err)
	}

	clk.advance(101)

	err = donateLogic.Donate(context.Background(), id, testDonor, big.NewInt(10))
	if !errors.Is(err, ErrDeadlinePassed) {
		t.Fatalf("err = %v, want ErrDeadlinePassed", err)
	}

	campaign, err := campaignLogic.GetCampaign(id)
	if err != nil {
		t.Fatalf("GetCampaign: %v", err)
	}
	if len(campaign.Donators) != 0 || campaign.AmountCollected.Sign() != 0 {
		t.Errorf("record changed: donators=%d collected=%s", len(campaign.Donators), campaign.AmountCollected)
	}
	if transferer.callCount() != 0 {
		t.Errorf("transfer calls = %d, want 0", transferer.callCount())
	}
}

func TestDonateAtDeadline(t *testing.T) {
	campaignLogic, donateLogic, clk, _ := newDonateFixture(t)

	id, err := campaignLogic.CreateCampaign(testOwner, "标题", "", "",
		big.NewInt(1000), testNow+100)
	if err != nil {
		t.Fatalf("CreateCampaign: %v", err)
	}

	// 截止时间当秒仍可捐款
	clk.advance(100)

	if err := donateLogic.Donate(context.Background(), id, testDonor, big.NewInt(10)); err != nil {
		t.Fatalf("Donate at deadline: %v", err)
	}
}

func TestDonateTargetReached(t *testing.T) {
	campaignLogic, donateLogic, _, _ := newDonateFixture(t)

	id, err := campaignLogic.CreateCampaign(testOwner, "标题", "", "",
		big.NewInt(100), testNow+100)
	if err != nil {
		t.Fatalf("CreateCampaign: %v", err)
	}
	if err := donateLogic.Donate(context.Background(), id, testDonor, big.NewInt(100)); err != nil {
		t.Fatalf("Donate: %v", err)
	}

	err = donateLogic.Donate(context.Background(), id, testDonor, big.NewInt(1))
	if !errors.Is(err, ErrTargetReached) {
		t.Fatalf("err = %v, want ErrTargetReached", err)
	}

	campaign, err := campaignLogic.GetCampaign(id)
	if err != nil {
		t.Fatalf("GetCampaign: %v", err)
	}
	if len(campaign.Donations) != 1 {
		t.Errorf("donations = %d, want 1", len(campaign.Donations))
	}
}

func TestDonateOvershoot(t *testing.T) {
	campaignLogic, donateLogic, _, _ := newDonateFixture(t)

	id, err := campaignLogic.CreateCampaign(testOwner, "标题", "", "",
		big.NewInt(100), testNow+100)
	if err != nil {
		t.Fatalf("CreateCampaign: %v", err)
	}

	// 目标检查在累加之前，单笔大额捐款可以冲过目标
	if err := donateLogic.Donate(context.Background(), id, testDonor, big.NewInt(1000)); err != nil {
		t.Fatalf("Donate: %v", err)
	}

	campaign, err := campaignLogic.GetCampaign(id)
	if err != nil {
		t.Fatalf("GetCampaign: %v", err)
	}
	if campaign.AmountCollected.Cmp(big.NewInt(1000)) != 0 {
		t.Errorf("amount collected = %s, want 1000", campaign.AmountCollected)
	}

	err = donateLogic.Donate(context.Background(), id, testDonor, big.NewInt(1))
	if !errors.Is(err, ErrTargetReached) {
		t.Errorf("err = %v, want ErrTargetReached", err)
	}
}

func TestDonateTransferFailure(t *testing.T) {
	campaignLogic, donateLogic, _, transferer := newDonateFixture(t)
	transferer.err = errors.New("insufficient funds")

	id, err := campaignLogic.CreateCampaign(testOwner, "标题", "", "",
		big.NewInt(1000), testNow+100)
	if err != nil {
		t.Fatalf("CreateCampaign: %v", err)
	}

	err = donateLogic.Donate(context.Background(), id, testDonor, big.NewInt(10))
	if err == nil {
		t.Fatal("Donate succeeded, want transfer error")
	}
	if !errors.Is(err, transferer.err) {
		t.Errorf("err = %v, want wrapped %v", err, transferer.err)
	}

	// 划转失败不留任何本地状态
	campaign, err := campaignLogic.GetCampaign(id)
	if err != nil {
		t.Fatalf("GetCampaign: %v", err)
	}
	if len(campaign.Donators) != 0 || len(campaign.Donations) != 0 {
		t.Errorf("record changed: donators=%d donations=%d", len(campaign.Donators), len(campaign.Donations))
	}
	if campaign.AmountCollected.Sign() != 0 {
		t.Errorf("amount collected = %s, want 0", campaign.AmountCollected)
	}
}

func TestDonateNotFound(t *testing.T) {
	_, donateLogic, _, _ := newDonateFixture(t)

	err := donateLogic.Donate(context.Background(), 0, testDonor, big.NewInt(10))
	if !errors.Is(err, ErrCampaignNotFound) {
		t.Errorf("err = %v, want ErrCampaignNotFound", err)
	}
}

func TestDonateUnknownIdLeavesNoLockEntry(t *testing.T) {
	campaignLogic, donateLogic, _, _ := newDonateFixture(t)

	for _, id := range []uint64{0, 7, 1 << 40} {
		err := donateLogic.Donate(context.Background(), id, testDonor, big.NewInt(10))
		if !errors.Is(err, ErrCampaignNotFound) {
			t.Fatalf("Donate(%d) err = %v, want ErrCampaignNotFound", id, err)
		}
	}

	donateLogic.mu.Lock()
	got := len(donateLogic.locks)
	donateLogic.mu.Unlock()
	if got != 0 {
		t.Errorf("lock entries = %d, want 0", got)
	}

	// 已创建的活动照常分配
	id, err := campaignLogic.CreateCampaign(testOwner, "标题", "", "",
		big.NewInt(1000), testNow+100)
	if err != nil {
		t.Fatalf("CreateCampaign: %v", err)
	}
	if err := donateLogic.Donate(context.Background(), id, testDonor, big.NewInt(10)); err != nil {
		t.Fatalf("Donate: %v", err)
	}
	donateLogic.mu.Lock()
	got = len(donateLogic.locks)
	donateLogic.mu.Unlock()
	if got != 1 {
		t.Errorf("lock entries = %d, want 1", got)
	}
}

func TestDonateInvalidAmount(t *testing.T) {
	campaignLogic, donateLogic, _, _ := newDonateFixture(t)

	id, err := campaignLogic.CreateCampaign(testOwner, "标题", "", "",
		big.NewInt(1000), testNow+100)
	if err != nil {
		t.Fatalf("CreateCampaign: %v", err)
	}

	for _, amount := range []*big.Int{nil, big.NewInt(0), big.NewInt(-5)} {
		err := donateLogic.Donate(context.Background(), id, testDonor, amount)
		if !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("amount %v: err = %v, want ErrInvalidAmount", amount, err)
		}
	}
}

func TestDonateParallelSequencesEqualLength(t *testing.T) {
	campaignLogic, donateLogic, _, _ := newDonateFixture(t)

	id, err := campaignLogic.CreateCampaign(testOwner, "标题", "", "",
		big.NewInt(1_000_000), testNow+100)
	if err != nil {
		t.Fatalf("CreateCampaign: %v", err)
	}

	total := big.NewInt(0)
	for i := 1; i <= 5; i++ {
		amount := big.NewInt(int64(i * 10))
		if err := donateLogic.Donate(context.Background(), id, testDonor, amount); err != nil {
			t.Fatalf("Donate %d: %v", i, err)
		}
		total.Add(total, amount)

		donators, donations, err := campaignLogic.GetDonators(id)
		if err != nil {
			t.Fatalf("GetDonators: %v", err)
		}
		if len(donators) != len(donations) {
			t.Fatalf("sequences diverge: %d != %d", len(donators), len(donations))
		}
		if len(donators) != i {
			t.Errorf("len = %d, want %d", len(donators), i)
		}

		// 累计金额等于各笔捐款之和
		campaign, err := campaignLogic.GetCampaign(id)
		if err != nil {
			t.Fatalf("GetCampaign: %v", err)
		}
		sum := big.NewInt(0)
		for _, donation := range campaign.Donations {
			sum.Add(sum, donation)
		}
		if campaign.AmountCollected.Cmp(sum) != 0 {
			t.Errorf("amount collected = %s, sum = %s", campaign.AmountCollected, sum)
		}
		if campaign.AmountCollected.Cmp(total) != 0 {
			t.Errorf("amount collected = %s, want %s", campaign.AmountCollected, total)
		}
	}
}

func TestConcurrentDonationsRespectTarget(t *testing.T) {
	campaignLogic, donateLogic, _, transferer := newDonateFixture(t)

	id, err := campaignLogic.CreateCampaign(testOwner, "标题", "", "",
		big.NewInt(100), testNow+100)
	if err != nil {
		t.Fatalf("CreateCampaign: %v", err)
	}

	// 目标金额只够一笔，其余并发捐款必须被目标检查拦下
	const goroutines = 4
	errs := make(chan error, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- donateLogic.Donate(context.Background(), id, testDonor, big.NewInt(100))
		}()
	}
	wg.Wait()
	close(errs)

	var succeeded, rejected int
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrTargetReached):
			rejected++
		default:
			t.Errorf("unexpected err: %v", err)
		}
	}
	if succeeded != 1 || rejected != goroutines-1 {
		t.Errorf("succeeded=%d rejected=%d, want 1/%d", succeeded, rejected, goroutines-1)
	}
	if transferer.callCount() != 1 {
		t.Errorf("transfer calls = %d, want 1", transferer.callCount())
	}

	campaign, err := campaignLogic.GetCampaign(id)
	if err != nil {
		t.Fatalf("GetCampaign: %v", err)
	}
	if campaign.AmountCollected.Cmp(big.NewInt(100)) != 0 {
		t.Errorf("amount collected = %s, want 100", campaign.AmountCollected)
	}
}
