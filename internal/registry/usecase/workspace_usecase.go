package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/keygate/keygate/internal/crypto/domain"
	cryptoUsecase "github.com/keygate/keygate/internal/crypto/usecase"
	"github.com/keygate/keygate/internal/database"
	registryDomain "github.com/keygate/keygate/internal/registry/domain"
)

// workspaceUseCase implements the WorkspaceUseCase interface.
type workspaceUseCase struct {
	txManager        database.TxManager
	workspaceRepo    WorkspaceRepository
	envelope         cryptoUsecase.EnvelopeUseCase
	dataKeyAlgorithm cryptoDomain.Algorithm
}

// NewWorkspaceUseCase creates a new workspace use case.
func NewWorkspaceUseCase(
	txManager database.TxManager,
	workspaceRepo WorkspaceRepository,
	envelope cryptoUsecase.EnvelopeUseCase,
	dataKeyAlgorithm cryptoDomain.Algorithm,
) WorkspaceUseCase {
	return &workspaceUseCase{
		txManager:        txManager,
		workspaceRepo:    workspaceRepo,
		envelope:         envelope,
		dataKeyAlgorithm: dataKeyAlgorithm,
	}
}

// Create provisions a workspace together with its data encryption key. Both
// records are written in one transaction so a workspace never exists without
// its key.
func (w *workspaceUseCase) Create(ctx context.Context, name string) (*registryDomain.Workspace, error) {
	var workspace *registryDomain.Workspace

	err := w.txManager.WithTx(ctx, func(txCtx context.Context) error {
		dataKey, err := w.envelope.CreateDataKey(txCtx, w.dataKeyAlgorithm)
		if err != nil {
			return err
		}

		workspace = &registryDomain.Workspace{
			ID:        uuid.Must(uuid.NewV7()),
			Name:      name,
			DataKeyID: dataKey.ID,
			CreatedAt: time.Now().UTC(),
		}

		return w.workspaceRepo.Create(txCtx, workspace)
	})
	if err != nil {
		return nil, err
	}

	return workspace, nil
}

// Get retrieves a workspace by ID.
func (w *workspaceUseCase) Get(ctx context.Context, workspaceID uuid.UUID) (*registryDomain.Workspace, error) {
	return w.workspaceRepo.Get(ctx, workspaceID)
}
