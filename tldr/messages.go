package tldr

// User-facing lines.
const (
	MsgNoGuild           = "请在群聊中使用此命令"
	MsgGuildDisabled     = "本群未启用此功能"
	MsgUserWrongPlatform = "查询的用户不在当前平台"
	MsgInvalidCount      = "消息数量必须为正整数"
	MsgNoMessages        = "没有找到符合条件的消息"
	MsgGenerationFailed  = "请求失败，请稍后再试"
	MsgStorageFailed     = "读取消息失败，请稍后再试"
	MsgAnchorNotFound    = "找不到引用的消息"

	msgCountOverMax = "最大获取消息数量为 %d 条"

	noticeRecent   = "正在总结最近 %d 条消息……"
	noticeAnchored = "正在总结从所选消息开始的 %d 条消息……"
	statusRecent   = "已为您总结最近 %d 条消息"
	statusAnchored = "已为您总结从所选消息开始的 %d 条消息"
)
