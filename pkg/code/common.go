package code

var (
	Success       = NewSuss(1, lang{en: "Success", zh_cn: "成功"})
	SuccessCreate = NewSuss(2, lang{en: "Created", zh_cn: "创建成功"}).WithHTTPStatus(201)
	SuccessUpdate = NewSuss(3, lang{en: "Updated", zh_cn: "更新成功"})
	SuccessDelete = NewSuss(4, lang{en: "Deleted", zh_cn: "删除成功"})

	Failed                    = NewError(400, KindInternal, lang{en: "Failed", zh_cn: "失败"})
	ErrorServerInternal       = NewError(500, KindInternal, lang{en: "Internal server error", zh_cn: "服务器内部错误"})
	ErrorInvalidParams        = NewError(501, KindValidation, lang{en: "Invalid parameters", zh_cn: "参数验证失败"})
	ErrorNotFoundAPI          = NewError(502, KindNotFound, lang{en: "API not found", zh_cn: "接口不存在"})
	ErrorTooManyRequests      = NewError(503, KindTooManyRequests, lang{en: "Too many requests", zh_cn: "请求过多"})
	ErrorNotUserAuthToken     = NewError(504, KindUnauthenticated, lang{en: "Authentication token required", zh_cn: "缺少认证 Token"})
	ErrorInvalidUserAuthToken = NewError(505, KindUnauthenticated, lang{en: "Invalid authentication token", zh_cn: "认证 Token 无效"})
	ErrorForbidden            = NewError(506, KindAuthorization, lang{en: "Forbidden", zh_cn: "无权访问"})
	ErrorDBQuery              = NewError(507, KindInternal, lang{en: "Database query failed", zh_cn: "数据库查询失败"})
	ErrorDBWrite              = NewError(508, KindInternal, lang{en: "Database write failed", zh_cn: "数据库写入失败"})
	ErrorServerBusy           = NewError(509, KindTransient, lang{en: "Server busy, please retry", zh_cn: "服务繁忙, 请稍后重试"})

	// user & token
	ErrorUserNotFound      = NewError(601, KindNotFound, lang{en: "User not found", zh_cn: "用户不存在"})
	ErrorUserCreate        = NewError(602, KindInternal, lang{en: "Failed to create user", zh_cn: "创建用户失败"})
	ErrorUserEmailExists   = NewError(603, KindValidation, lang{en: "Email already in use", zh_cn: "邮箱已被使用"})
	ErrorUserDelete        = NewError(604, KindInternal, lang{en: "Failed to delete user", zh_cn: "删除用户失败"})
	ErrorTokenGenerate     = NewError(611, KindInternal, lang{en: "Failed to generate token", zh_cn: "生成 Token 失败"})
	ErrorTokenNotFound     = NewError(612, KindNotFound, lang{en: "Token not found", zh_cn: "Token 不存在"})
	ErrorTokenRevoked      = NewError(613, KindUnauthenticated, lang{en: "Token has been revoked", zh_cn: "Token 已被吊销"})
	ErrorTokenNameRequired = NewError(614, KindValidation, lang{en: "Token name is required", zh_cn: "Token 名称不能为空"})

	// links
	ErrorLinkURLInvalid         = NewError(701, KindValidation, lang{en: "Invalid link URL", zh_cn: "链接地址无效"})
	ErrorLinkNotFound           = NewError(702, KindNotFound, lang{en: "Link not found", zh_cn: "链接不存在"})
	ErrorLinkCategoryInvalid    = NewError(703, KindValidation, lang{en: "Invalid category", zh_cn: "分类无效"})
	ErrorLinkThoughtsInvalid    = NewError(704, KindValidation, lang{en: "Invalid thoughts", zh_cn: "想法内容无效"})
	ErrorUserLinkNotFound       = NewError(711, KindNotFound, lang{en: "Link not found in your bookmarks.", zh_cn: "收藏中不存在该链接"})
	ErrorUserLinkStatusInvalid  = NewError(712, KindValidation, lang{en: "Invalid status", zh_cn: "状态无效"})
	ErrorUserLinkTransition     = NewError(713, KindValidation, lang{en: "Invalid status transition", zh_cn: "状态变更不允许"})
	ErrorNoteInvalid            = NewError(721, KindValidation, lang{en: "Invalid note", zh_cn: "笔记内容无效"})
	ErrorNoteRequiresBookmark   = NewError(722, KindValidation, lang{en: "You must bookmark this link before adding notes.", zh_cn: "添加笔记前请先收藏该链接"})
	ErrorStatusTextInvalid      = NewError(731, KindValidation, lang{en: "Invalid status message", zh_cn: "状态内容无效"})
	ErrorStatusNotFound         = NewError(732, KindNotFound, lang{en: "Status not found", zh_cn: "状态不存在"})
	ErrorStatusRequiresBookmark = NewError(733, KindValidation, lang{en: "Add a link before posting a status.", zh_cn: "发布状态前请先添加链接"})
	ErrorTitleFetch             = NewError(741, KindTransient, lang{en: "Failed to fetch page title", zh_cn: "获取页面标题失败"})
)
