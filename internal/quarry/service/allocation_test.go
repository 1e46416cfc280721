package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bitfantasy/quarry-erp/internal/quarry/entity"
	"github.com/bitfantasy/quarry-erp/internal/quarry/repository"
	"github.com/bitfantasy/quarry-erp/internal/quarry/testutil"
	"go.uber.org/zap"
)

func setupServices(t *testing.T) *Services {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	return NewServices(repos, zap.NewNop())
}

func createLot(t *testing.T, svc *Services, qbid string, splitCap int) *entity.Lot {
	t.Helper()
	lot, err := svc.Lot.Create(context.Background(), &CreateLotInput{
		QBID:         qbid,
		MaterialName: "Granite Black",
		StoneFamily:  entity.StoneFamilyGranite,
		SplitCap:     splitCap,
	}, "tester")
	if err != nil {
		t.Fatalf("create lot: %v", err)
	}
	return lot
}

func createManualBlock(t *testing.T, svc *Services) *entity.Block {
	t.Helper()
	block, err := svc.Block.Create(context.Background(), &CreateBlockInput{
		MaterialName: "Granite Black",
		Yard:         "yard-a",
	}, "tester")
	if err != nil {
		t.Fatalf("create block: %v", err)
	}
	return block
}

func createSlab(t *testing.T, svc *Services, blockID, stoneType string) *entity.Slab {
	t.Helper()
	slab, err := svc.Slab.Create(context.Background(), &CreateSlabInput{
		BlockID:   blockID,
		StoneType: stoneType,
		Yard:      "yard-a",
	}, "tester")
	if err != nil {
		t.Fatalf("create slab: %v", err)
	}
	return slab
}

func TestGenerateBlocksFillsCapacity(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()
	createLot(t, svc, "QB-100", 3)

	blocks, err := svc.Lot.GenerateBlocks(ctx, "QB-100", "tester")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(blocks))
	}
	want := []string{"QB-100-A", "QB-100-B", "QB-100-C"}
	for i, b := range blocks {
		if b.ID != want[i] {
			t.Errorf("block %d: expected id %s, got %s", i, want[i], b.ID)
		}
	}

	// generating again at cap must fail
	_, err = svc.Lot.GenerateBlocks(ctx, "QB-100", "tester")
	var capErr *CapacityExceededError
	if !errors.As(err, &capErr) {
		t.Fatalf("expected CapacityExceededError, got %v", err)
	}
	if capErr.Cap != 3 || capErr.Used != 3 {
		t.Errorf("expected cap=3 used=3, got cap=%d used=%d", capErr.Cap, capErr.Used)
	}
}

func TestGenerateBlocksReusesFreedSlot(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()
	createLot(t, svc, "QB-200", 3)

	if _, err := svc.Lot.GenerateBlocks(ctx, "QB-200", "tester"); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if err := svc.Block.Delete(ctx, "QB-200-B", "tester"); err != nil {
		t.Fatalf("delete middle block: %v", err)
	}

	blocks, err := svc.Lot.GenerateBlocks(ctx, "QB-200", "tester")
	if err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	if blocks[0].ID != "QB-200-B" {
		t.Errorf("expected freed slot QB-200-B to be reused, got %s", blocks[0].ID)
	}
}

func TestLockedLotRejectsStructuralWrites(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()
	createLot(t, svc, "QB-300", 2)

	// editable before any block exists
	name := "Marble White"
	if _, err := svc.Lot.Update(ctx, "QB-300", &UpdateLotInput{MaterialName: &name}, "tester"); err != nil {
		t.Fatalf("update unlocked lot: %v", err)
	}

	if _, err := svc.Lot.GenerateBlocks(ctx, "QB-300", "tester"); err != nil {
		t.Fatalf("generate: %v", err)
	}

	view, err := svc.Lot.Get(ctx, "QB-300")
	if err != nil {
		t.Fatalf("get lot: %v", err)
	}
	if !view.Locked {
		t.Fatal("expected lot to be locked after block generation")
	}

	// structural write rejected
	name2 := "Quartz Grey"
	_, err = svc.Lot.Update(ctx, "QB-300", &UpdateLotInput{MaterialName: &name2}, "tester")
	var lockedErr *LockedEntityError
	if !errors.As(err, &lockedErr) {
		t.Fatalf("expected LockedEntityError, got %v", err)
	}

	// cost fields remain writable and total is recomputed
	gross, transport := 1000.0, 200.0
	updated, err := svc.Lot.Update(ctx, "QB-300", &UpdateLotInput{GrossCost: &gross, TransportCost: &transport}, "tester")
	if err != nil {
		t.Fatalf("cost update on locked lot: %v", err)
	}
	if updated.TotalCost != 1200 {
		t.Errorf("expected total_cost 1200, got %v", updated.TotalCost)
	}
}

func TestLockedBlockRejectsStructuralWrites(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()
	block := createManualBlock(t, svc)
	createSlab(t, svc, block.ID, "")

	length := 250.0
	_, err := svc.Block.Update(ctx, block.ID, &UpdateBlockInput{LengthCm: &length}, "tester")
	var lockedErr *LockedEntityError
	if !errors.As(err, &lockedErr) {
		t.Fatalf("expected LockedEntityError, got %v", err)
	}

	// non-structural fields stay writable
	yard := "yard-b"
	view, err := svc.Block.Update(ctx, block.ID, &UpdateBlockInput{Yard: &yard}, "tester")
	if err != nil {
		t.Fatalf("yard update on locked block: %v", err)
	}
	if view.Yard != "yard-b" {
		t.Errorf("expected yard yard-b, got %s", view.Yard)
	}
}

func TestSlabReservationConflict(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()
	block := createManualBlock(t, svc)
	slab := createSlab(t, svc, block.ID, entity.FamilyTiles)

	// wrong family is rejected
	_, err := svc.Derived.Create(ctx, entity.FamilyCobbles, &CreateDerivedInput{SLID: slab.ID}, "tester")
	var resErr *ReservationConflictError
	if !errors.As(err, &resErr) {
		t.Fatalf("expected ReservationConflictError, got %v", err)
	}
	if resErr.Reserved != entity.FamilyTiles {
		t.Errorf("expected reserved=tiles, got %s", resErr.Reserved)
	}

	// matching family consumes the slab exactly once
	if _, err := svc.Derived.Create(ctx, entity.FamilyTiles, &CreateDerivedInput{SLID: slab.ID}, "tester"); err != nil {
		t.Fatalf("first tile creation: %v", err)
	}
	_, err = svc.Derived.Create(ctx, entity.FamilyTiles, &CreateDerivedInput{SLID: slab.ID}, "tester")
	if !errors.As(err, &resErr) {
		t.Fatalf("expected ReservationConflictError on consumed slab, got %v", err)
	}
	if resErr.Reserved != "consumed" {
		t.Errorf("expected reserved=consumed, got %s", resErr.Reserved)
	}
}

func TestUnreservedSlabAcceptsAnyFamily(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()
	block := createManualBlock(t, svc)
	slab := createSlab(t, svc, block.ID, entity.StoneFamilyGranite)

	if _, err := svc.Derived.Create(ctx, entity.FamilyMonuments, &CreateDerivedInput{SLID: slab.ID}, "tester"); err != nil {
		t.Fatalf("expected raw-family slab to accept any derived family, got %v", err)
	}
}

func TestConsumedSlabRejectsReservationChange(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()
	block := createManualBlock(t, svc)
	slab := createSlab(t, svc, block.ID, entity.FamilyTiles)

	if _, err := svc.Derived.Create(ctx, entity.FamilyTiles, &CreateDerivedInput{SLID: slab.ID}, "tester"); err != nil {
		t.Fatalf("consume slab: %v", err)
	}

	newType := entity.FamilyPavers
	_, err := svc.Slab.Update(ctx, slab.ID, &UpdateSlabInput{StoneType: &newType}, "tester")
	var resErr *ReservationConflictError
	if !errors.As(err, &resErr) {
		t.Fatalf("expected ReservationConflictError, got %v", err)
	}
}

func TestDispatchSourceExclusivity(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()
	block := createManualBlock(t, svc)
	slab := createSlab(t, svc, block.ID, "")

	// both sources named
	_, err := svc.Dispatch.Create(ctx, &CreateDispatchInput{
		SLID: slab.ID, ItemType: entity.FamilyTiles, ItemID: "x", Customer: "ACME",
	}, "tester")
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError for double source, got %v", err)
	}

	// no source named
	_, err = svc.Dispatch.Create(ctx, &CreateDispatchInput{Customer: "ACME"}, "tester")
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError for missing source, got %v", err)
	}
}

func TestDispatchDuplicateSourceRejected(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()
	block := createManualBlock(t, svc)
	slab := createSlab(t, svc, block.ID, "")

	first, err := svc.Dispatch.Create(ctx, &CreateDispatchInput{SLID: slab.ID, Customer: "ACME"}, "tester")
	if err != nil {
		t.Fatalf("first dispatch: %v", err)
	}

	_, err = svc.Dispatch.Create(ctx, &CreateDispatchInput{SLID: slab.ID, Customer: "ACME"}, "tester")
	var resErr *ReservationConflictError
	if !errors.As(err, &resErr) {
		t.Fatalf("expected ReservationConflictError, got %v", err)
	}
	if resErr.Reserved != "dispatched" {
		t.Errorf("expected reserved=dispatched, got %s", resErr.Reserved)
	}

	// deleting the dispatch re-opens the source
	if err := svc.Dispatch.Delete(ctx, first.ID, "tester"); err != nil {
		t.Fatalf("delete dispatch: %v", err)
	}
	if _, err := svc.Dispatch.Create(ctx, &CreateDispatchInput{SLID: slab.ID, Customer: "ACME"}, "tester"); err != nil {
		t.Fatalf("re-dispatch after delete: %v", err)
	}
}

func TestDeletionGuards(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()
	createLot(t, svc, "QB-400", 1)
	if _, err := svc.Lot.GenerateBlocks(ctx, "QB-400", "tester"); err != nil {
		t.Fatalf("generate: %v", err)
	}
	slab := createSlab(t, svc, "QB-400-A", entity.FamilyTiles)
	item, err := svc.Derived.Create(ctx, entity.FamilyTiles, &CreateDerivedInput{SLID: slab.ID}, "tester")
	if err != nil {
		t.Fatalf("create derived: %v", err)
	}

	var childErr *HasChildrenError
	if err := svc.Lot.Delete(ctx, "QB-400", "tester"); !errors.As(err, &childErr) {
		t.Fatalf("expected HasChildrenError deleting lot, got %v", err)
	}
	if err := svc.Block.Delete(ctx, "QB-400-A", "tester"); !errors.As(err, &childErr) {
		t.Fatalf("expected HasChildrenError deleting block, got %v", err)
	}
	if err := svc.Slab.Delete(ctx, slab.ID, "tester"); !errors.As(err, &childErr) {
		t.Fatalf("expected HasChildrenError deleting slab, got %v", err)
	}

	// unwind bottom-up, each level becomes deletable once childless
	if err := svc.Derived.Delete(ctx, entity.FamilyTiles, item.ID, "tester"); err != nil {
		t.Fatalf("delete derived: %v", err)
	}
	if err := svc.Slab.Delete(ctx, slab.ID, "tester"); err != nil {
		t.Fatalf("delete slab: %v", err)
	}
	if err := svc.Block.Delete(ctx, "QB-400-A", "tester"); err != nil {
		t.Fatalf("delete block: %v", err)
	}
	if err := svc.Lot.Delete(ctx, "QB-400", "tester"); err != nil {
		t.Fatalf("delete lot: %v", err)
	}
}

func TestSlotArithmetic(t *testing.T) {
	if got := blockIDForSlot("QB-1", 1); got != "QB-1-A" {
		t.Errorf("slot 1: got %s", got)
	}
	if got := blockIDForSlot("QB-1", 26); got != "QB-1-Z" {
		t.Errorf("slot 26: got %s", got)
	}
	if got := blockIDForSlot("QB-1", 27); got != "QB-1-27" {
		t.Errorf("slot 27: got %s", got)
	}
	if got := slotOf("QB-1", "QB-1-A"); got != 1 {
		t.Errorf("parse slot A: got %d", got)
	}
	if got := slotOf("QB-1", "QB-1-27"); got != 27 {
		t.Errorf("parse slot 27: got %d", got)
	}
	if got := slotOf("QB-1", "BLK-manual"); got != 0 {
		t.Errorf("manual block should have no slot, got %d", got)
	}
}
