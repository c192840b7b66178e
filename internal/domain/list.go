package domain

type ListRequest struct {
	Status   string `query:"status"`
	Category string `query:"category"`
	Query    string `query:"q"`
	Sort     string `query:"sort" validate:"omitempty,oneof=newest oldest"`
}
