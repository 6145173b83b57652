package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	Forbidden           failure.ErrorCode = "Forbidden"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"

	// Коды модуля оценки трейд-инов
	InvalidBaseValue    failure.ErrorCode = "InvalidBaseValue"    // baseValue не число или отрицательное
	GameNotSupported    failure.ErrorCode = "GameNotSupported"    // не смогли нормализовать игру
	BracketNotFound     failure.ErrorCode = "BracketNotFound"     // нет подходящей вилки цен
	SettingsReadFailed  failure.ErrorCode = "SettingsReadFailed"  // БД не отдала настройки
	AuditWriteFailed    failure.ErrorCode = "AuditWriteFailed"    // не записали fallback-событие
	CacheClearFailed    failure.ErrorCode = "CacheClearFailed"    // сброс кэша настроек не удался
	InvalidBracketSetup failure.ErrorCode = "InvalidBracketSetup" // строка настроек не прошла разбор
)
