package domain

// Localized user-facing messages for the UltraMarket storefront locales.
// Codes without a mapping fall back to the error's own message.
var userMessages = map[string]map[ErrorCode]string{
	"uz": {
		CodeUnauthorized:         "Avtorizatsiyadan o'tish talab qilinadi",
		CodeForbidden:            "Bu amalni bajarishga ruxsat yo'q",
		CodeTokenExpired:         "Sessiya muddati tugadi, qayta kiring",
		CodeValidationError:      "Kiritilgan ma'lumotlar noto'g'ri",
		CodeInvalidInput:         "So'rov noto'g'ri tuzilgan",
		CodeNotFound:             "So'ralgan ma'lumot topilmadi",
		CodeAlreadyExists:        "Bunday yozuv allaqachon mavjud",
		CodeConflict:             "Amalni bajarib bo'lmadi, qayta urinib ko'ring",
		CodeRateLimited:          "So'rovlar soni ko'payib ketdi, birozdan keyin urinib ko'ring",
		CodeInsufficientStock:    "Omborda yetarli mahsulot yo'q",
		CodeDatabaseError:        "Vaqtinchalik texnik nosozlik, qayta urinib ko'ring",
		CodeExternalServiceError: "Tashqi xizmat vaqtincha ishlamayapti",
		CodePaymentError:         "To'lovni amalga oshirib bo'lmadi",
		CodeInternalError:        "Ichki server xatosi",
	},
	"ru": {
		CodeUnauthorized:         "Требуется авторизация",
		CodeForbidden:            "Недостаточно прав для этого действия",
		CodeTokenExpired:         "Сессия истекла, войдите заново",
		CodeValidationError:      "Введены некорректные данные",
		CodeInvalidInput:         "Некорректный запрос",
		CodeNotFound:             "Запрошенные данные не найдены",
		CodeAlreadyExists:        "Такая запись уже существует",
		CodeConflict:             "Не удалось выполнить операцию, попробуйте снова",
		CodeRateLimited:          "Слишком много запросов, попробуйте позже",
		CodeInsufficientStock:    "Недостаточно товара на складе",
		CodeDatabaseError:        "Временный технический сбой, попробуйте снова",
		CodeExternalServiceError: "Внешний сервис временно недоступен",
		CodePaymentError:         "Не удалось провести платёж",
		CodeInternalError:        "Внутренняя ошибка сервера",
	},
	"en": {
		CodeUnauthorized:         "Authentication required",
		CodeForbidden:            "You are not allowed to perform this action",
		CodeTokenExpired:         "Session expired, please sign in again",
		CodeValidationError:      "The submitted data is invalid",
		CodeInvalidInput:         "Malformed request",
		CodeNotFound:             "The requested resource was not found",
		CodeAlreadyExists:        "Such a record already exists",
		CodeConflict:             "The operation could not be completed, please retry",
		CodeRateLimited:          "Too many requests, please try again later",
		CodeInsufficientStock:    "Not enough items in stock",
		CodeDatabaseError:        "Temporary technical issue, please retry",
		CodeExternalServiceError: "An upstream service is temporarily unavailable",
		CodePaymentError:         "The payment could not be processed",
		CodeInternalError:        "Internal server error",
	},
}

// UserMessage returns the localized message for the error's code. Unknown
// locales fall back to Uzbek; codes without a mapping fall back to the raw
// error message.
func UserMessage(e *AppError, locale string) string {
	msgs, ok := userMessages[locale]
	if !ok {
		msgs = userMessages["uz"]
	}
	if msg, ok := msgs[e.Code]; ok {
		return msg
	}
	return e.Message
}
