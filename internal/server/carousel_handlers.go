package server

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/markvault/markvault/internal/usecase"
)

type Carousel struct {
	ID              string   `json:"id"`
	Status          string   `json:"status"`
	UploaderID      string   `json:"uploader_id"`
	CompanyID       *string  `json:"company_id,omitempty"`
	Visibility      string   `json:"visibility"`
	AllowedRole     string   `json:"allowed_role,omitempty"`
	CampaignName    string   `json:"campaign_name,omitempty"`
	TargetPlatforms []string `json:"target_platforms,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	CreatedAt       string   `json:"created_at,omitempty"`
	UpdatedAt       string   `json:"updated_at,omitempty"`
	Children        []Asset  `json:"children"`
	Uploader        *User    `json:"uploader,omitempty"`
	Company         *Company `json:"company,omitempty"`
}

func ConvertCarouselFrom(c usecase.Carousel) Carousel {
	carousel := Carousel{
		ID:              c.ID.String(),
		Status:          string(c.Status),
		UploaderID:      c.UploaderID.String(),
		Visibility:      string(c.Visibility),
		AllowedRole:     string(c.AllowedRole),
		CampaignName:    c.CampaignName,
		TargetPlatforms: c.TargetPlatforms,
		Tags:            c.Tags,
		CreatedAt:       c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       c.UpdatedAt.Format(time.RFC3339),
	}
	if c.CompanyID != nil {
		id := c.CompanyID.String()
		carousel.CompanyID = &id
	}
	carousel.Children = make([]Asset, 0, len(c.Children))
	for _, child := range c.Children {
		carousel.Children = append(carousel.Children, ConvertAssetFrom(child))
	}
	if c.Uploader != nil {
		u := ConvertUserFrom(*c.Uploader)
		carousel.Uploader = &u
	}
	if c.Company != nil {
		co := ConvertCompanyFrom(*c.Company)
		carousel.Company = &co
	}
	return carousel
}

type ListCarouselsRequest struct {
	Skip         int    `query:"skip"`
	Limit        int    `query:"limit" validate:"required,gte=1,lte=100"`
	Status       string `query:"status" validate:"omitempty,oneof=DRAFT PENDING_REVIEW APPROVED REJECTED"`
	UploaderID   string `query:"uploader_id" validate:"omitempty,uuid"`
	CompanyID    string `query:"company_id" validate:"omitempty,uuid"`
	CampaignName string `query:"campaign_name"`
	SortBy       string `query:"sort_by" validate:"omitempty,oneof=created_at updated_at campaign_name"`
	SortIn       string `query:"sort_in" validate:"omitempty,oneof=asc desc"`
}

func (s *Server) ListCarousels(ctx echo.Context) error {
	var req = ListCarouselsRequest{Limit: 20}
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, map[string]string{"error": err.Error()})
	}

	opt := usecase.ListCarouselsOption{
		Skip:         req.Skip,
		Limit:        req.Limit,
		CampaignName: req.CampaignName,
		SortBy:       req.SortBy,
		SortIn:       req.SortIn,
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

	list, total, err := s.server.ListVisibleCarousels(ctx.Request().Context(), opt)
	if err != nil {
		return errJSON(ctx, err)
	}

	carousels := make([]Carousel, 0, len(list))
	for _, c := range list {
		carousels = append(carousels, ConvertCarouselFrom(c))
	}

	return ctx.JSON(200, Res{
		Data: carousels,
		Meta: &Meta{
			Total: total,
			Skip:  req.Skip,
			Limit: req.Limit,
		},
	})
}

type GetCarouselByIDRequest struct {
	ID string `param:"id" validate:"required,uuid"`
}

func (s *Server) GetCarouselByID(ctx echo.Context) error {
	var req GetCarouselByIDRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, map[string]string{"error": err.Error()})
	}

	id, _ := uuid.Parse(req.ID)
	c, err := s.server.GetVisibleCarousel(ctx.Request().Context(), id)
	if err != nil {
		return errJSON(ctx, err)
	}

	return ctx.JSON(200, Res{Data: ConvertCarouselFrom(c)})
}

type CarouselChildRequest struct {
	Type       string `json:"type" validate:"required,oneof=IMAGE VIDEO"`
	StorageRef string `json:"storage_ref" validate:"required"`
	Submit     bool   `json:"submit"`
}

type CreateCarouselRequest struct {
	CompanyID       string                 `json:"company_id" validate:"required,uuid"`
	Visibility      string                 `json:"visibility" validate:"required"`
	AllowedRole     string                 `json:"allowed_role" validate:"omitempty,oneof=ADMIN CONTENT_CREATOR SEO_SPECIALIST"`
	CampaignName    string                 `json:"campaign_name"`
	TargetPlatforms []string               `json:"target_platforms"`
	Tags            []string               `json:"tags"`
	Children        []CarouselChildRequest `json:"children" validate:"required,min=1,dive"`
}

func (s *Server) CreateCarousel(ctx echo.Context) error {
	var req CreateCarouselRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, map[string]string{"error": err.Error()})
	}

	companyID, _ := uuid.Parse(req.CompanyID)
	opt := usecase.CreateCarouselOption{
		CompanyID:       &companyID,
		Visibility:      usecase.VisibilityLevel(req.Visibility),
		AllowedRole:     usecase.Role(req.AllowedRole),
		CampaignName:    req.CampaignName,
		TargetPlatforms: req.TargetPlatforms,
		Tags:            req.Tags,
	}
	for _, child := range req.Children {
		opt.Children = append(opt.Children, usecase.CarouselChildDraft{
			Type:       usecase.AssetType(child.Type),
			StorageRef: child.StorageRef,
			Submit:     child.Submit,
		})
	}

	c, err := s.server.CreateCarousel(ctx.Request().Context(), opt)
	if err != nil {
		return errJSON(ctx, err)
	}

	return ctx.JSON(201, Res{Data: ConvertCarouselFrom(c)})
}

type UpdateCarouselRequest struct {
	ID string `param:"id" validate:"required,uuid"`

	Visibility      *string  `json:"visibility"`
	AllowedRole     *string  `json:"allowed_role" validate:"omitempty,oneof=ADMIN CONTENT_CREATOR SEO_SPECIALIST"`
	CampaignName    *string  `json:"campaign_name"`
	TargetPlatforms []string `json:"target_platforms"`
	Tags            []string `json:"tags"`
}

func (s *Server) UpdateCarousel(ctx echo.Context) error {
	var req UpdateCarouselRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, map[string]string{"error": err.Error()})
	}

	opt := usecase.UpdateCarouselOption{
		CampaignName:    req.CampaignName,
		TargetPlatforms: req.TargetPlatforms,
		Tags:            req.Tags,
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
	c, err := s.server.UpdateCarousel(ctx.Request().Context(), id, opt)
	if err != nil {
		return errJSON(ctx, err)
	}

	return ctx.JSON(200, Res{Data: ConvertCarouselFrom(c)})
}

type DeleteCarouselRequest struct {
	ID string `param:"id" validate:"required,uuid"`
}

func (s *Server) DeleteCarousel(ctx echo.Context) error {
	var req DeleteCarouselRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, map[string]string{"error": err.Error()})
	}

	id, _ := uuid.Parse(req.ID)
	deleted, err := s.server.DeleteCarousel(ctx.Request().Context(), id)
	if err != nil {
		return errJSON(ctx, err)
	}

	ids := make([]string, 0, len(deleted))
	for _, d := range deleted {
		ids = append(ids, d.String())
	}
	return ctx.JSON(200, Res{Data: map[string][]string{"deleted": ids}})
}

type ChildResult struct {
	AssetID string `json:"asset_id"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
}

type CarouselReviewResult struct {
	Carousel Carousel      `json:"carousel"`
	Children []ChildResult `json:"children"`
}

func convertReviewResultFrom(r usecase.CarouselReviewResult) CarouselReviewResult {
	res := CarouselReviewResult{
		Carousel: ConvertCarouselFrom(r.Carousel),
		Children: make([]ChildResult, 0, len(r.Children)),
	}
	for _, child := range r.Children {
		cr := ChildResult{
			AssetID: child.AssetID.String(),
			Status:  string(child.Status),
		}
		if child.Err != nil {
			cr.Error = child.Err.Error()
		}
		res.Children = append(res.Children, cr)
	}
	return res
}

type ApproveCarouselRequest struct {
	ID string `param:"id" validate:"required,uuid"`

	All         bool     `json:"all"`
	AssetIDs    []string `json:"asset_ids" validate:"omitempty,dive,uuid"`
	Visibility  *string  `json:"visibility"`
	AllowedRole *string  `json:"allowed_role" validate:"omitempty,oneof=ADMIN CONTENT_CREATOR SEO_SPECIALIST"`
}

func (s *Server) ApproveCarousel(ctx echo.Context) error {
	var req ApproveCarouselRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, map[string]string{"error": err.Error()})
	}
	if !req.All && len(req.AssetIDs) == 0 {
		return ctx.JSON(422, map[string]string{"error": "either all or asset_ids is required"})
	}

	opt := usecase.ReviewCarouselOption{All: req.All}
	for _, raw := range req.AssetIDs {
		id, _ := uuid.Parse(raw)
		opt.AssetIDs = append(opt.AssetIDs, id)
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
	result, err := s.server.ApproveCarousel(ctx.Request().Context(), id, opt)
	if err != nil {
		return errJSON(ctx, err)
	}

	return ctx.JSON(200, Res{Data: convertReviewResultFrom(result)})
}

type RejectCarouselRequest struct {
	ID string `param:"id" validate:"required,uuid"`

	All      bool     `json:"all"`
	AssetIDs []string `json:"asset_ids" validate:"omitempty,dive,uuid"`
	Reason   string   `json:"reason" validate:"required"`
}

func (s *Server) RejectCarousel(ctx echo.Context) error {
	var req RejectCarouselRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, map[string]string{"error": err.Error()})
	}
	if !req.All && len(req.AssetIDs) == 0 {
		return ctx.JSON(422, map[string]string{"error": "either all or asset_ids is required"})
	}

	opt := usecase.ReviewCarouselOption{All: req.All}
	for _, raw := range req.AssetIDs {
		id, _ := uuid.Parse(raw)
		opt.AssetIDs = append(opt.AssetIDs, id)
	}

	id, _ := uuid.Parse(req.ID)
	result, err := s.server.RejectCarousel(ctx.Request().Context(), id, req.Reason, opt)
	if err != nil {
		return errJSON(ctx, err)
	}

	return ctx.JSON(200, Res{Data: convertReviewResultFrom(result)})
}

type ReviewCarouselAssetRequest struct {
	ID      string `param:"id" validate:"required,uuid"`
	AssetID string `param:"assetId" validate:"required,uuid"`

	Reason      string  `json:"reason"`
	Visibility  *string `json:"visibility"`
	AllowedRole *string `json:"allowed_role" validate:"omitempty,oneof=ADMIN CONTENT_CREATOR SEO_SPECIALIST"`
}

func (s *Server) ApproveCarouselAsset(ctx echo.Context) error {
	var req ReviewCarouselAssetRequest
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

	carouselID, _ := uuid.Parse(req.ID)
	assetID, _ := uuid.Parse(req.AssetID)
	a, err := s.server.ApproveCarouselAsset(ctx.Request().Context(), carouselID, assetID, opt)
	if err != nil {
		return errJSON(ctx, err)
	}

	return ctx.JSON(200, Res{Data: ConvertAssetFrom(a)})
}

func (s *Server) RejectCarouselAsset(ctx echo.Context) error {
	var req ReviewCarouselAssetRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, map[string]string{"error": err.Error()})
	}

	carouselID, _ := uuid.Parse(req.ID)
	assetID, _ := uuid.Parse(req.AssetID)
	a, err := s.server.RejectCarouselAsset(ctx.Request().Context(), carouselID, assetID, req.Reason)
	if err != nil {
		return errJSON(ctx, err)
	}

	return ctx.JSON(200, Res{Data: ConvertAssetFrom(a)})
}

type DeleteCarouselAssetRequest struct {
	ID      string `param:"id" validate:"required,uuid"`
	AssetID string `param:"assetId" validate:"required,uuid"`
}

// DeleteCarouselAsset removes a single child. Siblings and the container
// are untouched; the response reports whether the carousel is now empty.
func (s *Server) DeleteCarouselAsset(ctx echo.Context) error {
	var req DeleteCarouselAssetRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, map[string]string{"error": err.Error()})
	}

	carouselID, _ := uuid.Parse(req.ID)
	assetID, _ := uuid.Parse(req.AssetID)

	a, err := s.server.GetVisibleAsset(ctx.Request().Context(), assetID)
	if err != nil {
		return errJSON(ctx, err)
	}
	if a.CarouselID == nil || *a.CarouselID != carouselID {
		return ctx.JSON(422, Res{
			Error:   "INVALID_ASSET_IN_CAROUSEL",
			Message: "asset is not a child of the carousel",
		})
	}

	action, err := s.server.DeleteAsset(ctx.Request().Context(), assetID)
	if err != nil {
		return errJSON(ctx, err)
	}

	return ctx.JSON(200, Res{Data: ParentAction{
		CarouselID: action.CarouselID.String(),
		Empty:      action.Empty,
	}})
}
