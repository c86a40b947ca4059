package logger

import "go.uber.org/zap"

// 统一的日志字段命名常量
// 用于确保整个项目中日志字段命名的一致性，便于日志查询和分析
const (
	// FieldTraceID 追踪 ID 字段
	FieldTraceID = "traceId"

	// FieldUID 用户 ID 字段
	FieldUID = "uid"

	// FieldMethod 方法名称字段
	FieldMethod = "method"

	// FieldLinkID 链接 ID 字段
	FieldLinkID = "linkId"

	// FieldURL 链接地址字段
	FieldURL = "url"

	// FieldDuration 耗时字段
	FieldDuration = "duration"

	// FieldTask 任务名称字段
	FieldTask = "task"
)

func TraceID(id string) zap.Field { return zap.String(FieldTraceID, id) }
func UID(uid int64) zap.Field { return zap.Int64(FieldUID, uid) }
func Method(m string) zap.Field { return zap.String(FieldMethod, m) }
func LinkID(id int64) zap.Field { return zap.Int64(FieldLinkID, id) }
func URL(u string) zap.Field { return zap.String(FieldURL, u) }
func Task(name string) zap.Field { return zap.String(FieldTask, name) }
