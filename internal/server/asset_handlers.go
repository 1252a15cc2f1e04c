package server

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/markvault/markvault/internal/usecase"
)

type Asset struct {
	ID              string   `json:"id"`
	Type            string   `json:"type"`
	Status          string   `json:"status"`
	StorageRef      string   `json:"storage_ref,omitempty"`
	RejectionReason string   `json:"rejection_reason,omitempty"`
	ReviewedBy      *string  `json:"reviewed_by,omitempty"`
	ReviewedAt      *string  `json:"reviewed_at,omitempty"`
	CarouselID      *string  `json:"carousel_id,omitempty"`
	DownloadURL     string   `json:"download_url,omitempty"`
	UploaderID      string   `json:"uploader_id"`
	CompanyID       *string  `json:"company_id,omitempty"`
	Visibility      string   `json:"visibility"`
	AllowedRole     string   `json:"allowed_role,omitempty"`
	CampaignName    string   `json:"campaign_name,omitempty"`
	TargetPlatforms []string `json:"target_platforms,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	CreatedAt       string   `json:"created_at,omitempty"`
	UpdatedAt       string   `json:"updated_at,omitempty"`
	Uploader        *User    `json:"uploader,omitempty"`
	Company         *Company `json:"company,omitempty"`
}

func ConvertAssetFrom(a usecase.Asset) Asset {
	asset := Asset{
		ID:              a.ID.String(),
		Type:            string(a.Type),
		Status:          string(a.Status),
		StorageRef:      a.StorageRef,
		RejectionReason: a.RejectionReason,
		DownloadURL:     a.DownloadURL,
		UploaderID:      a.UploaderID.String(),
		Visibility:      string(a.Visibility),
		AllowedRole:     string(a.AllowedRole),
		CampaignName:    a.CampaignName,
		TargetPlatforms: a.TargetPlatforms,
		Tags:            a.Tags,
		CreatedAt:       a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       a.UpdatedAt.Format(time.RFC3339),
	}
	if a.ReviewedBy != nil {
		id := a.ReviewedBy.String()
		asset.ReviewedBy = &id
	}
	if a.ReviewedAt != nil {
		t := a.ReviewedAt.Format(time.RFC3339)
		asset.ReviewedAt = &t
	}
	if a.CarouselID != nil {
		id := a.CarouselID.String()
		asset.CarouselID = &id
	}
	if a.CompanyID != nil {
		id := a.CompanyID.String()
		asset.CompanyID = &id
	}
	if a.Uploader != nil {
		u := ConvertUserFrom(*a.Uploader)
		asset.Uploader = &u
	}
	if a.Company != nil {
		c := ConvertCompanyFrom(*a.Company)
		asset.Company = &c
	}
	return asset
}

type ListAssetsRequest struct {
	Skip         int    `query:"skip"`
	Limit        int    `query:"limit" validate:"required,gte=1,lte=100"`
	Type         string `query:"type" validate:"omitempty,oneof=IMAGE VIDEO DOCUMENT LINK"`
	Status       string `query:"status" validate:"omitempty,oneof=DRAFT PENDING_REVIEW APPROVED REJECTED"`
	UploaderID   string `query:"uploader_id" validate:"omitempty,uuid"`
	CompanyID    string `query:"company_id" validate:"omitempty,uuid"`
	CampaignName string `query:"campaign_name"`
	Tag          string `query:"tag"`
	SortBy       string `query:"sort_by" validate:"omitempty,oneof=created_at updated_at campaign_name"`
	SortIn       string `query:"sort_in" validate:"omitempty,oneof=asc desc"`
}

func (s *Server) ListAssets(ctx echo.Context) error {
	var req = ListAssetsRequest{Limit: 20}
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, map[string]string{"error": err.Error()})
	}

	opt := usecase.ListAssetsOption{
		Skip:         req.Skip,
		Limit:        req.Limit,
		CampaignName: req.CampaignName,
		Tag:          req.Tag,
		SortBy:       req.SortBy,
		SortIn:       req.SortIn,
	}
	if req.Type != "" {
		opt.Types = []usecase.AssetType{usecase.AssetType(req.Type)}
	}
	if req.Status != "" {
		opt.Statuses = []usecase.Status{usecase.Status(req.Status)}
	}
	if req.UploaderID != "" {
		id, _ := uuid.Parse(req.UploaderID)
		opt.UploaderIDs = append(opt.UploaderIDs, id)
	}
	if req.CompanyID != "" {
		id, _ := uuid.Parse(req.CompanyID)
		opt.CompanyIDs = append(opt.CompanyIDs, id)
	}

	list, total, err := s.server.ListVisibleAssets(ctx.Request().Context(), opt)
	if err != nil {
		return errJSON(ctx, err)
	}

	assets := make([]Asset, 0, len(list))
	for _, a := range list {
		assets = append(assets, ConvertAssetFrom(a))
	}

	return ctx.JSON(200, Res{
		Data: assets,
		Meta: &Meta{
			Total: total,
			Skip:  req.Skip,
			Limit: req.Limit,
		},
	})
}

type GetAssetByIDRequest struct {
	ID string `param:"id" validate:"required,uuid"`
}

func (s *Server) GetAssetByID(ctx echo.Context) error {
	var req GetAssetByIDRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, map[string]string{"error": err.Error()})
	}

	id, _ := uuid.Parse(req.ID)
	a, err := s.server.GetVisibleAsset(ctx.Request().Context(), id)
	if err != nil {
		return errJSON(ctx, err)
	}

	return ctx.JSON(200, Res{Data: ConvertAssetFrom(a)})
}

type CreateAssetRequest struct {
	Type            string   `json:"type" validate:"required,oneof=IMAGE VIDEO DOCUMENT LINK"`
	StorageRef      string   `json:"storage_ref" validate:"required"`
	CompanyID       string   `json:"company_id" validate:"omitempty,uuid"`
	Visibility      string   `json:"visibility" validate:"required"`
	AllowedRole     string   `json:"allowed_role" validate:"omitempty,oneof=ADMIN CONTENT_CREATOR SEO_SPECIALIST"`
	CampaignName    string   `json:"campaign_name"`
	TargetPlatforms []string `json:"target_platforms"`
	Tags            []string `json:"tags"`
	Submit          bool     `json:"submit"`
}

func (s *Server) CreateAsset(ctx echo.Context) error {
	var req CreateAssetRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, map[string]string{"error": err.Error()})
	}

	opt := usecase.CreateAssetOption{
		Type:            usecase.AssetType(req.Type),
		StorageRef:      req.StorageRef,
		Visibility:      usecase.VisibilityLevel(req.Visibility),
		AllowedRole:     usecase.Role(req.AllowedRole),
		CampaignName:    req.CampaignName,
		TargetPlatforms: req.TargetPlatforms,
		Tags:            req.Tags,
		Submit:          req.Submit,
	}
	if req.CompanyID != "" {
		id, _ := uuid.Parse(req.CompanyID)
		opt.CompanyID = &id
	}

	a, err := s.server.CreateAsset(ctx.Request().Context(), opt)
	if err != nil {
		return errJSON(ctx, err)
	}

	return ctx.JSON(201, Res{Data: ConvertAssetFrom(a)})
}

type UpdateAssetRequest struct {
	ID string `param:"id" validate:"required,uuid"`

	Visibility      *string  `json:"visibility"`
	AllowedRole     *string  `json:"allowed_role" validate:"omitempty,oneof=ADMIN CONTENT_CREATOR SEO_SPECIALIST"`
	CampaignName    *string  `json:"campaign_name"`
	TargetPlatforms []string `json:"target_platforms"`
	Tags            []string `json:"tags"`
	Submit          bool     `json:"submit"`
}

func (s *Server) UpdateAsset(ctx echo.Context) error {
	var req UpdateAssetRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, map[string]string{"error": err.Error()})
	}

	opt := usecase.UpdateAssetOption{
		CampaignName:    req.CampaignName,
		TargetPlatforms: req.TargetPlatforms,
		Tags:            req.Tags,
		Submit:          req.Submit,
	}
	if req.Visibility != nil {
		v := usecase.VisibilityLevel(*req.Visibility)
		opt.Visibility = &v
	}
	if req.AllowedRole != nil {
		r := usecase.Role(*req.AllowedRole)
		opt.AllowedRole = &r
	}

	id, _ := uuid.Parse(req.ID)
	a, err := s.server.UpdateAsset(ctx.Request().Context(), id, opt)
	if err != nil {
		return errJSON(ctx, err)
	}

	return ctx.JSON(200, Res{Data: ConvertAssetFrom(a)})
}

type DeleteAssetRequest struct {
	ID string `param:"id" validate:"required,uuid"`
}

// ParentAction reports the state a carousel was left in after one of its
// children was deleted.
type ParentAction struct {
	CarouselID string `json:"carousel_id"`
	Empty      bool   `json:"empty"`
}

func (s *Server) DeleteAsset(ctx echo.Context) error {
	var req DeleteAssetRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, map[string]string{"error": err.Error()})
	}

	id, _ := uuid.Parse(req.ID)
	action, err := s.server.DeleteAsset(ctx.Request().Context(), id)
	if err != nil {
		return errJSON(ctx, err)
	}

	if action.CarouselID == uuid.Nil {
		return ctx.NoContent(204)
	}
	return ctx.JSON(200, Res{Data: ParentAction{
		CarouselID: action.CarouselID.String(),
		Empty:      action.Empty,
	}})
}

type ApproveAssetRequest struct {
	ID string `param:"id" validate:"required,uuid"`

	Visibility  *string `json:"visibility"`
	AllowedRole *string `json:"allowed_role" validate:"omitempty,oneof=ADMIN CONTENT_CREATOR SEO_SPECIALIST"`
}

func (s *Server) ApproveAsset(ctx echo.Context) error {
	var req ApproveAssetRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, map[string]string{"error": err.Error()})
	}

	opt := usecase.ApproveAssetOption{}
	if req.Visibility != nil {
		v := usecase.VisibilityLevel(*req.Visibility)
		opt.Visibility = &v
	}
	if req.AllowedRole != nil {
		r := usecase.Role(*req.AllowedRole)
		opt.AllowedRole = &r
	}

	id, _ := uuid.Parse(req.ID)
	a, err := s.server.ApproveAsset(ctx.Request().Context(), id, opt)
	if err != nil {
		return errJSON(ctx, err)
	}

	return ctx.JSON(200, Res{Data: ConvertAssetFrom(a)})
}

type RejectAssetRequest struct {
	ID string `param:"id" validate:"required,uuid"`

	Reason string `json:"reason" validate:"required"`
}

func (s *Server) RejectAsset(ctx echo.Context) error {
	var req RejectAssetRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, map[string]string{"error": err.Error()})
	}

	id, _ := uuid.Parse(req.ID)
	a, err := s.server.RejectAsset(ctx.Request().Context(), id, req.Reason)
	if err != nil {
		return errJSON(ctx, err)
	}

	return ctx.JSON(200, Res{Data: ConvertAssetFrom(a)})
}
