package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gotruck.backend/internal/domain/entities"
	domainerrors "gotruck.backend/internal/domain/errors"
	"gotruck.backend/internal/infrastructure/models"
)

// LedgerRepositoryImpl implements LedgerRepository
type LedgerRepositoryImpl struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepositoryImpl {
	return &LedgerRepositoryImpl{db: db}
}

func (r *LedgerRepositoryImpl) Create(ctx context.Context, entry *entities.LedgerEntry) error {
	if entry.Amount <= 0 {
		return domainerrors.ErrInvalidAmount
	}
	m := &models.LedgerEntry{
		ID:            entry.ID,
		ActorID:       entry.ActorID,
		Wallet:        string(entry.Wallet),
		Direction:     string(entry.Direction),
		Amount:        entry.Amount,
		Status:        string(entry.Status),
		Description:   entry.Description,
		SourceRef:     null.NewString(entry.SourceRef, entry.SourceRef != ""),
		MinWithdrawal: entry.MinWithdrawal,
		MinBalance:    entry.MinBalance,
		CreatedAt:     time.Now(),
		ResolvedAt:    entry.ResolvedAt,
	}
	return GetDB(ctx, r.db).WithContext(ctx).Create(m).Error
}

func (r *LedgerRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.LedgerEntry, error) {
	var m models.LedgerEntry
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return r.toEntity(&m), nil
}

// SumBalance derives the balance directly from the ledger. Approved and
// completed debits always count against the balance; pending debits are
// subtracted only for the spendable view so two concurrent requests cannot
// both look fundable against the same credits.
func (r *LedgerRepositoryImpl) SumBalance(ctx context.Context, actorID uuid.UUID, wallet entities.WalletKind, includePending bool) (int64, error) {
	debitStatuses := []string{string(entities.EntryStatusApproved), string(entities.EntryStatusCompleted)}
	if includePending {
		debitStatuses = append(debitStatuses, string(entities.EntryStatusPending))
	}

	var balance *int64
	err := GetDB(ctx, r.db).WithContext(ctx).Model(&models.LedgerEntry{}).
		Select("SUM(CASE WHEN direction = ? THEN amount WHEN status IN ? THEN -amount ELSE 0 END)",
			entities.DirectionCredit, debitStatuses).
		Where("actor_id = ? AND wallet = ?", actorID, wallet).
		Scan(&balance).Error
	if err != nil {
		return 0, err
	}
	if balance == nil {
		return 0, nil
	}
	return *balance, nil
}

func (r *LedgerRepositoryImpl) History(ctx context.Context, actorID uuid.UUID, wallet entities.WalletKind, limit, offset int) ([]*entities.LedgerEntry, int64, error) {
	db := GetDB(ctx, r.db).WithContext(ctx)

	query := db.Model(&models.LedgerEntry{}).Where("actor_id = ?", actorID)
	if wallet != "" {
		query = query.Where("wallet = ?", wallet)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.LedgerEntry
	if err := query.
		Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	entries := make([]*entities.LedgerEntry, 0, len(ms))
	for _, m := range ms {
		model := m
		entries = append(entries, r.toEntity(&model))
	}
	return entries, total, nil
}

// ResolvePending is the single-writer gate for withdrawal resolution: the
// WHERE clause only matches a still-pending debit, so of two concurrent
// approvals exactly one sees RowsAffected == 1.
func (r *LedgerRepositoryImpl) ResolvePending(ctx context.Context, id uuid.UUID, status entities.EntryStatus, resolvedAt time.Time) (int64, error) {
	res := GetDB(ctx, r.db).WithContext(ctx).Model(&models.LedgerEntry{}).
		Where("id = ? AND status = ? AND direction = ?",
			id, entities.EntryStatusPending, entities.DirectionDebit).
		Updates(map[string]interface{}{
			"status":      status,
			"resolved_at": resolvedAt,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *LedgerRepositoryImpl) ListPendingWithdrawals(ctx context.Context, limit, offset int) ([]*entities.LedgerEntry, int64, error) {
	db := GetDB(ctx, r.db).WithContext(ctx)

	query := db.Model(&models.LedgerEntry{}).
		Where("direction = ? AND status = ?", entities.DirectionDebit, entities.EntryStatusPending)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.LedgerEntry
	if err := query.
		Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	entries := make([]*entities.LedgerEntry, 0, len(ms))
	for _, m := range ms {
		model := m
		entries = append(entries, r.toEntity(&model))
	}
	return entries, total, nil
}

func (r *LedgerRepositoryImpl) ExistsBySource(ctx context.Context, description, sourceRef string) (bool, error) {
	var count int64
	err := GetDB(ctx, r.db).WithContext(ctx).Model(&models.LedgerEntry{}).
		Where("description = ? AND source_ref = ?", description, sourceRef).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *LedgerRepositoryImpl) toEntity(m *models.LedgerEntry) *entities.LedgerEntry {
	return &entities.LedgerEntry{
		ID:            m.ID,
		ActorID:       m.ActorID,
		Wallet:        entities.WalletKind(m.Wallet),
		Direction:     entities.EntryDirection(m.Direction),
		Amount:        m.Amount,
		Status:        entities.EntryStatus(m.Status),
		Description:   m.Description,
		SourceRef:     m.SourceRef.String,
		MinWithdrawal: m.MinWithdrawal,
		MinBalance:    m.MinBalance,
		CreatedAt:     m.CreatedAt,
		ResolvedAt:    m.ResolvedAt,
	}
}

// WalletAccountRepositoryImpl implements WalletAccountRepository
type WalletAccountRepositoryImpl struct {
	db *gorm.DB
}

func NewWalletAccountRepository(db *gorm.DB) *WalletAccountRepositoryImpl {
	return &WalletAccountRepositoryImpl{db: db}
}

func (r *WalletAccountRepositoryImpl) GetOrCreate(ctx context.Context, actorID uuid.UUID, kind entities.WalletKind) (*entities.WalletAccount, error) {
	db := GetDB(ctx, r.db).WithContext(ctx)

	var m models.WalletAccount
	err := db.Where("actor_id = ? AND kind = ?", actorID, kind).First(&m).Error
	if err == gorm.ErrRecordNotFound {
		m = models.WalletAccount{
			ID:        uuid.New(),
			ActorID:   actorID,
			Kind:      string(kind),
			Balance:   0,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := db.Create(&m).Error; err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	return walletAccountToEntity(&m), nil
}

// LockForUpdate issues SELECT ... FOR UPDATE on the wallet account row so
// the caller's transaction serializes against concurrent withdrawal
// requests for the same wallet. SQLite has no FOR UPDATE; its single-writer
// model already serializes, so the clause is applied on Postgres only.
func (r *WalletAccountRepositoryImpl) LockForUpdate(ctx context.Context, actorID uuid.UUID, kind entities.WalletKind) error {
	if _, err := r.GetOrCreate(ctx, actorID, kind); err != nil {
		return err
	}

	db := GetDB(ctx, r.db).WithContext(ctx)
	if db.Dialector.Name() != "postgres" {
		return nil
	}

	var m models.WalletAccount
	return db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("actor_id = ? AND kind = ?", actorID, kind).
		First(&m).Error
}

func (r *WalletAccountRepositoryImpl) ListByActor(ctx context.Context, actorID uuid.UUID) ([]*entities.WalletAccount, error) {
	var ms []models.WalletAccount
	if err := GetDB(ctx, r.db).WithContext(ctx).
		Where("actor_id = ?", actorID).
		Order("kind ASC").
		Find(&ms).Error; err != nil {
		return nil, err
	}

	accounts := make([]*entities.WalletAccount, 0, len(ms))
	for _, m := range ms {
		model := m
		accounts = append(accounts, walletAccountToEntity(&model))
	}
	return accounts, nil
}

func (r *WalletAccountRepositoryImpl) AddToBalance(ctx context.Context, actorID uuid.UUID, kind entities.WalletKind, delta int64) error {
	return GetDB(ctx, r.db).WithContext(ctx).Model(&models.WalletAccount{}).
		Where("actor_id = ? AND kind = ?", actorID, kind).
		Updates(map[string]interface{}{
			"balance":    gorm.Expr("balance + ?", delta),
			"updated_at": time.Now(),
		}).Error
}

func (r *WalletAccountRepositoryImpl) SetBalance(ctx context.Context, actorID uuid.UUID, kind entities.WalletKind, balance int64) error {
	return GetDB(ctx, r.db).WithContext(ctx).Model(&models.WalletAccount{}).
		Where("actor_id = ? AND kind = ?", actorID, kind).
		Updates(map[string]interface{}{
			"balance":    balance,
			"updated_at": time.Now(),
		}).Error
}

func (r *WalletAccountRepositoryImpl) ListAll(ctx context.Context, limit, offset int) ([]*entities.WalletAccount, error) {
	var ms []models.WalletAccount
	if err := GetDB(ctx, r.db).WithContext(ctx).
		Order("created_at ASC").
		Limit(limit).Offset(offset).
		Find(&ms).Error; err != nil {
		return nil, err
	}

	accounts := make([]*entities.WalletAccount, 0, len(ms))
	for _, m := range ms {
		model := m
		accounts = append(accounts, walletAccountToEntity(&model))
	}
	return accounts, nil
}

func walletAccountToEntity(m *models.WalletAccount) *entities.WalletAccount {
	return &entities.WalletAccount{
		ID:        m.ID,
		ActorID:   m.ActorID,
		Kind:      entities.WalletKind(m.Kind),
		Balance:   m.Balance,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
