package dto

// HTTPError 全域錯誤響應模型
// swagger:model dto.HTTPError
type HTTPError struct {
	// message 錯誤描述
	Message string `json:"message" example:"Not a valid ID."`
	// errors 逐欄位的驗證錯誤，僅 400 驗證失敗時出現
	Errors []string `json:"errors,omitempty"`
}
