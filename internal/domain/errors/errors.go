package errors

import (
	"net/http"

	"ferremas/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

func (e *BaseError) Message() string {
	return e.message
}

func (e *BaseError) Details() string {
	return e.details
}

// WithDetails returns a copy carrying detailed error information.
// The copy still matches the original with errors.Is.
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Is matches any BaseError with the same error code.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)
	if !ok {
		return false
	}

	return t.errorCode == e.errorCode
}

// Predefined error types
var (
	// User-related errors
	ErrUserNotFound = NewBaseError(
		http.StatusNotFound,
		"USER_NOT_FOUND",
		"Usuario no encontrado",
		"",
	)

	ErrUserAlreadyExists = NewBaseError(
		http.StatusConflict,
		"USER_ALREADY_EXISTS",
		"El correo electrónico ya está registrado",
		"",
	)

	ErrUsernameTaken = NewBaseError(
		http.StatusConflict,
		"USERNAME_TAKEN",
		"El nombre de usuario ya existe",
		"",
	)

	ErrUserCreationFailed = NewBaseError(
		http.StatusInternalServerError,
		"USER_CREATION_FAILED",
		"Error al crear el usuario",
		"",
	)

	// Authentication-related errors
	ErrInvalidCredentials = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"Correo o contraseña incorrectos",
		"",
	)

	ErrUnauthorized = NewBaseError(
		http.StatusUnauthorized,
		"UNAUTHORIZED",
		"Debe iniciar sesión",
		"",
	)

	ErrRefreshTokenInvalid = NewBaseError(
		http.StatusUnauthorized,
		"REFRESH_TOKEN_INVALID",
		"Token de actualización inválido o expirado",
		"",
	)

	ErrPasswordHashFailed = NewBaseError(
		http.StatusInternalServerError,
		"PASSWORD_HASH_FAILED",
		"Error al procesar la contraseña",
		"",
	)

	ErrPasswordTooShort = NewBaseError(
		http.StatusBadRequest,
		"PASSWORD_TOO_SHORT",
		"La contraseña es demasiado corta",
		"",
	)

	// OAuth-related errors
	ErrOAuthFailed = NewBaseError(
		http.StatusUnauthorized,
		"OAUTH_FAILED",
		"Error en la autenticación con Google",
		"",
	)

	ErrOAuthTokenInvalid = NewBaseError(
		http.StatusBadRequest,
		"OAUTH_TOKEN_INVALID",
		"Token de Google inválido",
		"",
	)

	// Validation-related errors
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Datos de entrada inválidos",
		"",
	)

	// Catalog errors
	ErrProductNotFound = NewBaseError(
		http.StatusNotFound,
		"PRODUCT_NOT_FOUND",
		"Producto no encontrado",
		"",
	)

	ErrCategoryNotFound = NewBaseError(
		http.StatusNotFound,
		"CATEGORY_NOT_FOUND",
		"Categoría no encontrada",
		"",
	)

	ErrCategoryAlreadyExists = NewBaseError(
		http.StatusConflict,
		"CATEGORY_ALREADY_EXISTS",
		"La categoría ya existe",
		"",
	)

	ErrSubCategoryNotFound = NewBaseError(
		http.StatusNotFound,
		"SUBCATEGORY_NOT_FOUND",
		"Subcategoría no encontrada",
		"",
	)

	ErrSubCategoryMismatch = NewBaseError(
		http.StatusBadRequest,
		"SUBCATEGORY_CATEGORY_MISMATCH",
		"La subcategoría no pertenece a la categoría seleccionada",
		"",
	)

	ErrProductInUse = NewBaseError(
		http.StatusConflict,
		"PRODUCT_IN_USE",
		"El producto tiene órdenes asociadas",
		"",
	)

	ErrInvalidPrice = NewBaseError(
		http.StatusBadRequest,
		"INVALID_PRICE",
		"El precio debe ser mayor que 0",
		"",
	)

	ErrInvalidImage = NewBaseError(
		http.StatusBadRequest,
		"INVALID_IMAGE",
		"Archivo de imagen no permitido",
		"",
	)

	ErrImageUploadFailed = NewBaseError(
		http.StatusInternalServerError,
		"IMAGE_UPLOAD_FAILED",
		"Error al guardar la imagen",
		"",
	)

	// Cart errors
	ErrCartItemNotFound = NewBaseError(
		http.StatusNotFound,
		"CART_ITEM_NOT_FOUND",
		"Producto no encontrado en el carrito",
		"",
	)

	ErrCartEmpty = NewBaseError(
		http.StatusBadRequest,
		"CART_EMPTY",
		"El carrito está vacío",
		"",
	)

	ErrInsufficientStock = NewBaseError(
		http.StatusBadRequest,
		"INSUFFICIENT_STOCK",
		"Stock insuficiente",
		"",
	)

	ErrInvalidQuantity = NewBaseError(
		http.StatusBadRequest,
		"INVALID_QUANTITY",
		"La cantidad debe ser mayor que 0",
		"",
	)

	// Order and payment errors
	ErrOrderNotFound = NewBaseError(
		http.StatusNotFound,
		"ORDER_NOT_FOUND",
		"Orden no encontrada",
		"",
	)

	ErrTransactionNotFound = NewBaseError(
		http.StatusNotFound,
		"TRANSACTION_NOT_FOUND",
		"Transacción no encontrada",
		"",
	)

	ErrPaymentGatewayFailed = NewBaseError(
		http.StatusBadGateway,
		"PAYMENT_GATEWAY_FAILED",
		"Error al comunicarse con Webpay",
		"",
	)

	ErrOrderNotRefundable = NewBaseError(
		http.StatusConflict,
		"ORDER_NOT_REFUNDABLE",
		"La orden no puede ser reembolsada",
		"",
	)

	ErrOrderNotCompleted = NewBaseError(
		http.StatusConflict,
		"ORDER_NOT_COMPLETED",
		"La orden aún no ha sido pagada",
		"",
	)

	// Currency errors
	ErrUnsupportedCurrency = NewBaseError(
		http.StatusBadRequest,
		"UNSUPPORTED_CURRENCY",
		"Moneda no soportada",
		"",
	)

	ErrInvalidAmount = NewBaseError(
		http.StatusBadRequest,
		"INVALID_AMOUNT",
		"El monto debe ser mayor que 0",
		"",
	)

	ErrRateUnavailable = NewBaseError(
		http.StatusServiceUnavailable,
		"RATE_UNAVAILABLE",
		"No hay datos disponibles para la moneda",
		"",
	)

	ErrRateProviderAuth = NewBaseError(
		http.StatusBadGateway,
		"RATE_PROVIDER_AUTH_FAILED",
		"Error de autenticación con la API del Banco Central",
		"",
	)

	ErrRateProviderFailed = NewBaseError(
		http.StatusBadGateway,
		"RATE_PROVIDER_FAILED",
		"Error al conectar con la API del Banco Central",
		"",
	)

	// Notification errors
	ErrMailSendFailed = NewBaseError(
		http.StatusBadGateway,
		"MAIL_SEND_FAILED",
		"Error al enviar el mensaje",
		"",
	)

	// Store errors
	ErrInvalidCoordinates = NewBaseError(
		http.StatusBadRequest,
		"INVALID_COORDINATES",
		"Coordenadas inválidas",
		"",
	)

	// Transaction-related errors
	ErrTransactionFailed = NewBaseError(
		http.StatusInternalServerError,
		"TRANSACTION_FAILED",
		"Error en la transacción de base de datos",
		"",
	)

	// General errors
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Error interno del sistema",
		"",
	)

	ErrForbidden = NewBaseError(
		http.StatusForbidden,
		"FORBIDDEN",
		"Acceso denegado",
		"",
	)

	ErrNotFound = NewBaseError(
		http.StatusNotFound,
		"NOT_FOUND",
		"Recurso no encontrado",
		"",
	)
)

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

func (e *DatabaseExecuteError) Unwrap() error {
	return e.err
}

func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

func (e *DatabaseExecuteError) Message() string {
	return "Error al ejecutar la operación en la base de datos"
}

func (e *DatabaseExecuteError) Details() string {
	return e.details
}
