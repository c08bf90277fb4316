package web

import (
	"time"

	"promohub/internal/domain/model"
)

// Wire shapes. Window bounds travel as YYYY-MM-DD strings; counts are always
// derived from the aggregate, never echoed from the request.

type targetDTO struct {
	AgeFrom    *int     `json:"age_from,omitempty"`
	AgeUntil   *int     `json:"age_until,omitempty"`
	Country    *string  `json:"country,omitempty"`
	Categories []string `json:"categories,omitempty"`
}

func (t targetDTO) toModel() model.Target {
	return model.Target{
		AgeFrom:    t.AgeFrom,
		AgeUntil:   t.AgeUntil,
		Country:    t.Country,
		Categories: t.Categories,
	}
}

func targetFromModel(t model.Target) targetDTO {
	return targetDTO{
		AgeFrom:    t.AgeFrom,
		AgeUntil:   t.AgeUntil,
		Country:    t.Country,
		Categories: t.Categories,
	}
}

type promoResponse struct {
	PromoID     string    `json:"promo_id"`
	CompanyID   string    `json:"company_id"`
	CompanyName string    `json:"company_name"`
	Description string    `json:"description"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Target      targetDTO `json:"target"`
	MaxCount    int       `json:"max_count"`
	ActiveFrom  *string   `json:"active_from,omitempty"`
	ActiveUntil *string   `json:"active_until,omitempty"`
	Mode        string    `json:"mode"`
	CommonCode  *string   `json:"promo_common,omitempty"`
	UniqueCodes []string  `json:"promo_unique,omitempty"`
	Active      bool      `json:"active"`
	UsedCount   int       `json:"used_count"`
	LikeCount   int       `json:"like_count"`
}

func promoToResponse(p *model.Promo) promoResponse {
	return promoResponse{
		PromoID:     p.ID,
		CompanyID:   p.CompanyID,
		CompanyName: p.CompanyName,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Target:      targetFromModel(p.Target),
		MaxCount:    p.MaxCount,
		ActiveFrom:  formatDate(p.ActiveFrom),
		ActiveUntil: formatDate(p.ActiveUntil),
		Mode:        string(p.Mode),
		CommonCode:  p.CommonCode,
		UniqueCodes: p.UniqueCodes,
		Active:      p.Active,
		UsedCount:   p.UsedCount(),
		LikeCount:   p.LikeCount(),
	}
}

// promoForUser is the user-facing view: no codes, no capacity, engagement
// personalized to the requesting user.
type promoForUser struct {
	PromoID           string  `json:"promo_id"`
	CompanyID         string  `json:"company_id"`
	CompanyName       string  `json:"company_name"`
	Description       string  `json:"description"`
	ImageURL          *string `json:"image_url,omitempty"`
	Active            bool    `json:"active"`
	IsActivatedByUser bool    `json:"is_activated_by_user"`
	LikeCount         int     `json:"like_count"`
	IsLikedByUser     bool    `json:"is_liked_by_user"`
	CommentCount      int     `json:"comment_count"`
}

func promoToUserView(p *model.Promo, email string) promoForUser {
	return promoForUser{
		PromoID:           p.ID,
		CompanyID:         p.CompanyID,
		CompanyName:       p.CompanyName,
		Description:       p.Description,
		ImageURL:          p.ImageURL,
		Active:            p.Active,
		IsActivatedByUser: p.IsActivatedBy(email),
		LikeCount:         p.LikeCount(),
		IsLikedByUser:     p.IsLikedBy(email),
		CommentCount:      p.CommentCount(),
	}
}

type commentAuthorDTO struct {
	Name      string  `json:"name"`
	Surname   string  `json:"surname"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

type commentResponse struct {
	ID     string           `json:"id"`
	Text   string           `json:"text"`
	Date   time.Time        `json:"date"`
	Author commentAuthorDTO `json:"author"`
}

func commentToResponse(c model.Comment) commentResponse {
	return commentResponse{
		ID:   c.ID,
		Text: c.Text,
		Date: c.Date,
		Author: commentAuthorDTO{
			Name:      c.Author.Name,
			Surname:   c.Author.Surname,
			AvatarURL: c.Author.AvatarURL,
		},
	}
}

type userTargetingDTO struct {
	Age     int    `json:"age"`
	Country string `json:"country"`
}

type userProfile struct {
	Name      string           `json:"name"`
	Surname   string           `json:"surname"`
	Email     string           `json:"email"`
	AvatarURL *string          `json:"avatar_url,omitempty"`
	Other     userTargetingDTO `json:"other"`
}

func userToProfile(u *model.User) userProfile {
	return userProfile{
		Name:      u.Name,
		Surname:   u.Surname,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
		Other:     userTargetingDTO{Age: u.Other.Age, Country: u.Other.Country},
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := model.FormatPromoDate(*t)
	return &s
}
