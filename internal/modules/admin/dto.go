package admin

type SetRoleRequest struct {
	RoleID int64 `json:"roleId"`
}

type AddUserTypeRequest struct {
	UserTypeID int64 `json:"userTypeId"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
