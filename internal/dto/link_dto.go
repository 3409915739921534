package dto

type LinkAccountsRequest struct {
	AffiliatesEmail string `form:"affiliates_email" json:"affiliates_email" binding:"required,email"`
}

type NewsletterSubscribeRequest struct {
	Email   string `form:"email" json:"email" binding:"required,email"`
	Format  string `form:"format" json:"format" binding:"omitempty,oneof=html text"`
	Country string `form:"country" json:"country" binding:"omitempty,len=2"`
}

type LeaderboardFilterRequest struct {
	Country string `form:"country" json:"country" binding:"omitempty,len=2"`
}
