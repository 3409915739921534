package dto

// NextAction values control where the frontend goes after a create.
const (
	NextActionList  = "list"
	NextActionShare = "share"
)

type BannerInstanceCreateRequest struct {
	BannerID        uint   `form:"banner" json:"banner" binding:"required"`
	Text            string `form:"text" json:"text" binding:"required,max=90"`
	NextAction      string `form:"next_action" json:"next_action" binding:"omitempty,oneof=list share"`
	UseProfileImage bool   `form:"use_profile_image" json:"use_profile_image"`
	CanBeAnAd       bool   `form:"can_be_an_ad" json:"can_be_an_ad"`
}

type BannerInstanceDeleteRequest struct {
	BannerInstance string `form:"banner_instance" json:"banner_instance" binding:"required,uuid"`
}
