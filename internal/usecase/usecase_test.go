package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/markvault/markvault/internal/config"
)

// fakeRepo is an in-memory Repository for tests. A mutex guards every
// map because emitEvent fans out notifications on a background goroutine.
type fakeRepo struct {
	mu sync.Mutex

	assets    map[uuid.UUID]Asset
	carousels map[uuid.UUID]Carousel
	users     map[uuid.UUID]User
	companies map[uuid.UUID]Company
	shares    map[uuid.UUID]map[uuid.UUID]bool
	audits    []AuditLog
	notifs    []Notification
	authUsers map[string]AuthUser

	// beforeStatusUpdate runs ahead of the conditional status write, so a
	// test can interleave a competing reviewer.
	beforeStatusUpdate func()
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		assets:    map[uuid.UUID]Asset{},
		carousels: map[uuid.UUID]Carousel{},
		users:     map[uuid.UUID]User{},
		companies: map[uuid.UUID]Company{},
		shares:    map[uuid.UUID]map[uuid.UUID]bool{},
		authUsers: map[string]AuthUser{},
	}
}

func (fr *fakeRepo) Health() map[string]string { return map[string]string{"status": "up"} }
func (fr *fakeRepo) Close() error              { return nil }

func (fr *fakeRepo) ListAssets(_ context.Context, opt ListAssetsOption) ([]Asset, int, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()

	var list []Asset
	for _, a := range fr.assets {
		if opt.Standalone && a.CarouselID != nil {
			continue
		}
		if len(opt.Statuses) > 0 && !containsStatus(opt.Statuses, a.Status) {
			continue
		}
		list = append(list, a)
	}
	return list, len(list), nil
}

func containsStatus(ss []Status, s Status) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

func (fr *fakeRepo) GetAssetByID(_ context.Context, id uuid.UUID) (Asset, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	a, ok := fr.assets[id]
	if !ok {
		return Asset{}, ErrNotFound{ID: id, Code: "ASSET_NOT_FOUND", Message: "asset not found"}
	}
	return a, nil
}

func (fr *fakeRepo) CreateAsset(_ context.Context, a Asset) (Asset, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.CreatedAt = time.Now()
	fr.assets[a.ID] = a
	return a, nil
}

func (fr *fakeRepo) UpdateAsset(_ context.Context, a Asset) (Asset, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	if _, ok := fr.assets[a.ID]; !ok {
		return Asset{}, ErrNotFound{ID: a.ID, Code: "ASSET_NOT_FOUND", Message: "asset not found"}
	}
	fr.assets[a.ID] = a
	return a, nil
}

func (fr *fakeRepo) DeleteAsset(_ context.Context, id uuid.UUID) error {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	if _, ok := fr.assets[id]; !ok {
		return ErrNotFound{ID: id, Code: "ASSET_NOT_FOUND", Message: "asset not found"}
	}
	delete(fr.assets, id)
	return nil
}

func (fr *fakeRepo) UpdateAssetStatus(_ context.Context, su StatusUpdate) (Asset, error) {
	if fr.beforeStatusUpdate != nil {
		fr.beforeStatusUpdate()
	}

	fr.mu.Lock()
	defer fr.mu.Unlock()
	a, ok := fr.assets[su.AssetID]
	if !ok {
		return Asset{}, ErrNotFound{ID: su.AssetID, Code: "ASSET_NOT_FOUND", Message: "asset not found"}
	}
	if a.Status != su.From {
		return Asset{}, InvalidStateError{AssetID: su.AssetID, Expected: su.From, Actual: a.Status}
	}
	a.Status = su.To
	a.RejectionReason = su.Reason
	if su.ReviewedBy != uuid.Nil {
		rb := su.ReviewedBy
		now := time.Now()
		a.ReviewedBy = &rb
		a.ReviewedAt = &now
	}
	if su.Visibility != nil {
		a.Visibility = *su.Visibility
	}
	if su.AllowedRole != nil {
		a.AllowedRole = *su.AllowedRole
	}
	fr.assets[su.AssetID] = a
	return a, nil
}

// setAssetStatus mutates a stored asset directly, bypassing the
// conditional write. Used to simulate a competing reviewer.
func (fr *fakeRepo) setAssetStatus(id uuid.UUID, s Status) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	a := fr.assets[id]
	a.Status = s
	fr.assets[id] = a
}

func (fr *fakeRepo) ListCarousels(_ context.Context, opt ListCarouselsOption) ([]Carousel, int, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()

	var list []Carousel
	for id := range fr.carousels {
		c := fr.assembleCarousel(id)
		if len(opt.Statuses) > 0 && !containsStatus(opt.Statuses, c.Status) {
			continue
		}
		list = append(list, c)
	}
	return list, len(list), nil
}

// assembleCarousel attaches the live children. Caller holds the lock.
func (fr *fakeRepo) assembleCarousel(id uuid.UUID) Carousel {
	c := fr.carousels[id]
	c.Children = nil
	for _, a := range fr.assets {
		if a.CarouselID != nil && *a.CarouselID == id {
			c.Children = append(c.Children, a)
		}
	}
	return c
}

func (fr *fakeRepo) GetCarouselByID(_ context.Context, id uuid.UUID) (Carousel, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	if _, ok := fr.carousels[id]; !ok {
		return Carousel{}, ErrNotFound{ID: id, Code: "CAROUSEL_NOT_FOUND", Message: "carousel not found"}
	}
	return fr.assembleCarousel(id), nil
}

func (fr *fakeRepo) CreateCarousel(_ context.Context, c Carousel) (Carousel, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now()
	for _, child := range c.Children {
		if child.ID == uuid.Nil {
			child.ID = uuid.New()
		}
		id := c.ID
		child.CarouselID = &id
		fr.assets[child.ID] = child
	}
	container := c
	container.Children = nil
	fr.carousels[c.ID] = container
	return fr.assembleCarousel(c.ID), nil
}

func (fr *fakeRepo) UpdateCarousel(_ context.Context, c Carousel) (Carousel, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	if _, ok := fr.carousels[c.ID]; !ok {
		return Carousel{}, ErrNotFound{ID: c.ID, Code: "CAROUSEL_NOT_FOUND", Message: "carousel not found"}
	}
	container := c
	container.Children = nil
	fr.carousels[c.ID] = container
	return fr.assembleCarousel(c.ID), nil
}

func (fr *fakeRepo) SetCarouselStatus(_ context.Context, id uuid.UUID, s Status) error {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	c, ok := fr.carousels[id]
	if !ok {
		return ErrNotFound{ID: id, Code: "CAROUSEL_NOT_FOUND", Message: "carousel not found"}
	}
	c.Status = s
	fr.carousels[id] = c
	return nil
}

func (fr *fakeRepo) DeleteCarousel(_ context.Context, id uuid.UUID, childIDs uuid.UUIDs) error {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	if _, ok := fr.carousels[id]; !ok {
		return ErrNotFound{ID: id, Code: "CAROUSEL_NOT_FOUND", Message: "carousel not found"}
	}
	for _, cid := range childIDs {
		delete(fr.assets, cid)
	}
	delete(fr.carousels, id)
	return nil
}

func (fr *fakeRepo) ListUsers(_ context.Context, opt ListUsersOption) ([]User, int, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	var list []User
	for _, u := range fr.users {
		if opt.Role != "" && u.Role != opt.Role {
			continue
		}
		list = append(list, u)
	}
	return list, len(list), nil
}

func (fr *fakeRepo) GetUserByID(_ context.Context, id uuid.UUID) (User, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	u, ok := fr.users[id]
	if !ok {
		return User{}, ErrNotFound{ID: id, Code: "USER_NOT_FOUND", Message: "user not found"}
	}
	return u, nil
}

func (fr *fakeRepo) CreateUser(_ context.Context, u User) (User, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	fr.users[u.ID] = u
	return u, nil
}

func (fr *fakeRepo) UpdateUser(_ context.Context, u User) (User, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	if _, ok := fr.users[u.ID]; !ok {
		return User{}, ErrNotFound{ID: u.ID, Code: "USER_NOT_FOUND", Message: "user not found"}
	}
	fr.users[u.ID] = u
	return u, nil
}

func (fr *fakeRepo) DeleteUser(_ context.Context, id uuid.UUID) error {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	delete(fr.users, id)
	return nil
}

func (fr *fakeRepo) ListCompanies(_ context.Context, _ ListCompaniesOption) ([]Company, int, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	var list []Company
	for _, c := range fr.companies {
		list = append(list, c)
	}
	return list, len(list), nil
}

func (fr *fakeRepo) GetCompanyByID(_ context.Context, id uuid.UUID) (Company, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	c, ok := fr.companies[id]
	if !ok {
		return Company{}, ErrNotFound{ID: id, Code: "COMPANY_NOT_FOUND", Message: "company not found"}
	}
	return c, nil
}

func (fr *fakeRepo) CreateCompany(_ context.Context, c Company) (Company, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	fr.companies[c.ID] = c
	return c, nil
}

func (fr *fakeRepo) UpdateCompany(_ context.Context, c Company) (Company, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	fr.companies[c.ID] = c
	return c, nil
}

func (fr *fakeRepo) DeleteCompany(_ context.Context, id uuid.UUID) error {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	delete(fr.companies, id)
	return nil
}

func (fr *fakeRepo) HasAssetShare(_ context.Context, assetID, userID uuid.UUID) (bool, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	return fr.shares[assetID][userID], nil
}

func (fr *fakeRepo) ListAssetShares(_ context.Context, opt ListAssetSharesOption) ([]AssetShare, int, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	var list []AssetShare
	for userID := range fr.shares[opt.AssetID] {
		list = append(list, AssetShare{AssetID: opt.AssetID, UserID: userID})
	}
	return list, len(list), nil
}

func (fr *fakeRepo) CreateAssetShare(_ context.Context, s AssetShare) (AssetShare, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if fr.shares[s.AssetID] == nil {
		fr.shares[s.AssetID] = map[uuid.UUID]bool{}
	}
	fr.shares[s.AssetID][s.UserID] = true
	return s, nil
}

func (fr *fakeRepo) DeleteAssetShare(_ context.Context, assetID, userID uuid.UUID) error {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	delete(fr.shares[assetID], userID)
	return nil
}

func (fr *fakeRepo) CreateAuditLog(_ context.Context, l AuditLog) error {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	l.ID = uuid.New()
	fr.audits = append(fr.audits, l)
	return nil
}

func (fr *fakeRepo) ListAuditLogs(_ context.Context, opt ListAuditLogsOption) ([]AuditLog, int, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	var list []AuditLog
	for _, l := range fr.audits {
		if len(opt.EventTypes) > 0 && !containsEventType(opt.EventTypes, l.EventType) {
			continue
		}
		list = append(list, l)
	}
	return list, len(list), nil
}

func containsEventType(ts []EventType, t EventType) bool {
	for _, v := range ts {
		if v == t {
			return true
		}
	}
	return false
}

// auditLogs returns a copy of the persisted audit rows.
func (fr *fakeRepo) auditLogs() []AuditLog {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	out := make([]AuditLog, len(fr.audits))
	copy(out, fr.audits)
	return out
}

func (fr *fakeRepo) CreateNotification(_ context.Context, n Notification) error {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	n.ID = uuid.New()
	n.CreatedAt = time.Now()
	fr.notifs = append(fr.notifs, n)
	return nil
}

func (fr *fakeRepo) ListNotifications(_ context.Context, opt ListNotificationsOption) ([]Notification, int, int, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	var list []Notification
	unread := 0
	for _, n := range fr.notifs {
		if n.UserID != opt.UserID {
			continue
		}
		if n.ReadAt == nil {
			unread++
		}
		list = append(list, n)
	}
	return list, unread, len(list), nil
}

func (fr *fakeRepo) ReadNotification(_ context.Context, id uuid.UUID) error {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	for i, n := range fr.notifs {
		if n.ID == id && n.ReadAt == nil {
			now := time.Now()
			fr.notifs[i].ReadAt = &now
		}
	}
	return nil
}

func (fr *fakeRepo) ReadAllNotifications(_ context.Context, userID uuid.UUID) error {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	now := time.Now()
	for i, n := range fr.notifs {
		if n.UserID == userID && n.ReadAt == nil {
			fr.notifs[i].ReadAt = &now
		}
	}
	return nil
}

func (fr *fakeRepo) SubscribeNotifications(_ context.Context, _ chan<- Notification) error {
	return nil
}

func (fr *fakeRepo) UnsubscribeNotifications(_ context.Context, _ chan<- Notification) error {
	return nil
}

func (fr *fakeRepo) CreateAuthUser(_ context.Context, au AuthUser) (AuthUser, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	fr.authUsers[au.UID] = au
	return au, nil
}

func (fr *fakeRepo) GetAuthUserByUID(_ context.Context, uid string) (AuthUser, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	au, ok := fr.authUsers[uid]
	if !ok {
		return AuthUser{}, ErrNotFound{Code: "AUTH_USER_NOT_FOUND", Message: "auth user not found"}
	}
	return au, nil
}

type fakeStorage struct {
	mu         sync.Mutex
	moved      []string
	deleted    []string
	failDelete map[string]bool
}

func (f *fakeStorage) GetPublicURL(_ context.Context) (string, error) { return "https://cdn.test", nil }

func (f *fakeStorage) GetTempUploadURL(_ context.Context, name string) (string, error) {
	return "https://upload.test/" + name, nil
}

func (f *fakeStorage) MoveTempFilePublic(_ context.Context, source, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.moved = append(f.moved, source)
	return nil
}

func (f *fakeStorage) GetPresignedURL(_ context.Context, path string) (string, error) {
	return "https://cdn.test/" + path, nil
}

func (f *fakeStorage) DeleteFile(_ context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete[path] {
		return fmt.Errorf("delete %s: storage unavailable", path)
	}
	f.deleted = append(f.deleted, path)
	return nil
}

func (f *fakeStorage) TempPath() string { return "temp" }

type fakeIdentity struct{}

func (fakeIdentity) CreateUser(_ context.Context, ru RegisterUser) (string, error) {
	return "uid-" + ru.Email, nil
}

func (fakeIdentity) VerifyIDToken(_ context.Context, token string) (string, error) {
	return token, nil
}

type fakeEmail struct {
	mu   sync.Mutex
	sent []Email
}

func (f *fakeEmail) SendEmail(_ context.Context, e Email) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, e)
	return nil
}

func (f *fakeEmail) emails() []Email {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Email, len(f.sent))
	copy(out, f.sent)
	return out
}

type fakeQueue struct {
	mu    sync.Mutex
	tasks []string
}

func (f *fakeQueue) EnqueueTask(_ context.Context, taskType string, _ []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, taskType)
	return nil
}

// engine bundles a Usecase with its fakes for assertions.
type engine struct {
	uc      Usecase
	repo    *fakeRepo
	storage *fakeStorage
	email   *fakeEmail
	queue   *fakeQueue
}

func newTestEngine() *engine {
	repo := newFakeRepo()
	storage := &fakeStorage{}
	email := &fakeEmail{}
	queue := &fakeQueue{}
	return &engine{
		uc:      New(repo, storage, fakeIdentity{}, email, queue),
		repo:    repo,
		storage: storage,
		email:   email,
		queue:   queue,
	}
}

// seedUser stores a user and returns the matching principal.
func (e *engine) seedUser(role Role, companyID *uuid.UUID) Principal {
	u, _ := e.repo.CreateUser(context.Background(), User{
		Name:      "user-" + uuid.NewString()[:8],
		Email:     uuid.NewString()[:8] + "@example.com",
		Role:      role,
		CompanyID: companyID,
	})
	return Principal{ID: u.ID, Role: role, CompanyID: companyID}
}

// authCtx builds a context carrying the principal the way the HTTP auth
// middleware does.
func authCtx(p Principal) context.Context {
	ctx := context.WithValue(context.Background(), config.CTX_KEY_USER_ID, p.ID)
	ctx = context.WithValue(ctx, config.CTX_KEY_USER_ROLE, p.Role)
	if p.CompanyID != nil {
		ctx = context.WithValue(ctx, config.CTX_KEY_USER_COMPANY_ID, p.CompanyID)
	}
	return ctx
}

func ptr[T any](v T) *T { return &v }
