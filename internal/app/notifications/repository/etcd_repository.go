package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/marcelotrevisani/roboto/internal/pkg/etcd"
	clientv3 "go.etcd.io/etcd/client/v3"
)

type EtcdRepository struct {
	*etcd.Etcd
	Keys
}

func NewEtcdRepository(etcd *etcd.Etcd) *EtcdRepository {
	return &EtcdRepository{Etcd: etcd}
}

func (r *EtcdRepository) ClaimThread(ctx context.Context, threadId string, updatedAt time.Time) (bool, error) {
	key := r.GetThreadKey(threadId, updatedAt)

	lease, err := r.Client.Grant(ctx, int64(ThreadRetention.Seconds()))
	if err != nil {
		return false, fmt.Errorf("error granting lease for thread '%s': %w", threadId, err)
	}

	txnResp, err := r.Client.Txn(ctx).
		If(clientv3.Compare(clientv3.CreateRevision(key), "=", 0)).
		Then(clientv3.OpPut(key, updatedAt.Format(time.RFC3339), clientv3.WithLease(lease.ID))).
		Commit()
	if err != nil {
		return false, fmt.Errorf("error claiming thread '%s': %w", threadId, err)
	}

	return txnResp.Succeeded, nil
}

func (r *EtcdRepository) ReleaseThread(ctx context.Context, threadId string, updatedAt time.Time) error {
	_, err := r.Client.Delete(ctx, r.GetThreadKey(threadId, updatedAt))
	if err != nil {
		return fmt.Errorf("error releasing thread '%s': %w", threadId, err)
	}
	return nil
}

func (r *EtcdRepository) CountProcessed(ctx context.Context) (int64, error) {
	resp, err := r.Client.Get(ctx, ThreadPrefix+":", clientv3.WithPrefix(), clientv3.WithCountOnly())
	if err != nil {
		return 0, fmt.Errorf("error counting processed threads: %w", err)
	}
	return resp.Count, nil
}

func (r *EtcdRepository) SetLastRead(ctx context.Context, t time.Time) error {
	_, err := r.Client.Put(ctx, r.GetLastReadKey(), t.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("error storing last-read timestamp: %w", err)
	}
	return nil
}

func (r *EtcdRepository) GetLastRead(ctx context.Context) (time.Time, bool, error) {
	resp, err := r.Client.Get(ctx, r.GetLastReadKey())
	if err != nil {
		return time.Time{}, false, fmt.Errorf("error fetching last-read timestamp: %w", err)
	}
	if len(resp.Kvs) == 0 {
		return time.Time{}, false, nil
	}

	t, err := time.Parse(time.RFC3339Nano, string(resp.Kvs[0].Value))
	if err != nil {
		return time.Time{}, false, fmt.Errorf("error parsing last-read timestamp '%s': %w", resp.Kvs[0].Value, err)
	}

	return t, true, nil
}

func (r *EtcdRepository) HealthCheck(ctx context.Context) error {
	_, err := r.Client.Status(ctx, r.Client.Endpoints()[0])
	return err
}
