package logger

import (
	"time"

	"go.uber.org/zap"
)

// =================================================================================
// CAMPOS ESTÁNDAR - HTTP
// =================================================================================

// RequestID crea un campo para el ID del request.
func RequestID(v string) zap.Field { return zap.String("request_id", v) }

// Method crea un campo para el método HTTP.
func Method(v string) zap.Field { return zap.String("method", v) }

// Path crea un campo para el path del request.
func Path(v string) zap.Field { return zap.String("path", v) }

// Status crea un campo para el status code HTTP.
func Status(v int) zap.Field { return zap.Int("status", v) }

// DurationMs crea un campo para la duración en milisegundos.
func DurationMs(v int64) zap.Field { return zap.Int64("duration_ms", v) }

// Bytes crea un campo para los bytes de respuesta.
func Bytes(v int) zap.Field { return zap.Int("bytes", v) }

// ClientIP crea un campo para la IP del cliente.
func ClientIP(v string) zap.Field { return zap.String("client_ip", v) }

// =================================================================================
// CAMPOS ESTÁNDAR - SIGNUP
// =================================================================================

// FormID identifica la sesión de formulario.
func FormID(v string) zap.Field { return zap.String("form_id", v) }

// RuleID identifica una regla del catálogo.
func RuleID(v string) zap.Field { return zap.String("rule_id", v) }

// FailingRules lista las reglas que no pasan. Nunca loguear el password.
func FailingRules(v []string) zap.Field { return zap.Strings("failing_rules", v) }

// NoticeState es el estado del aviso transitorio.
func NoticeState(v string) zap.Field { return zap.String("notice_state", v) }

// Submittable es el valor del gate de envío.
func Submittable(v bool) zap.Field { return zap.Bool("submittable", v) }

// EmailDomain registra sólo el dominio del email.
func EmailDomain(v string) zap.Field { return zap.String("email_domain", v) }

// =================================================================================
// CAMPOS ESTÁNDAR - SISTEMA
// =================================================================================

// Component crea un campo para el componente/módulo.
func Component(v string) zap.Field { return zap.String("component", v) }

// Op crea un campo para la operación actual.
func Op(v string) zap.Field { return zap.String("op", v) }

// Layer crea un campo para la capa (controller, service, store).
func Layer(v string) zap.Field { return zap.String("layer", v) }

// Err crea un campo para un error.
func Err(err error) zap.Field { return zap.Error(err) }

// Count crea un campo para un conteo.
func Count(v int) zap.Field { return zap.Int("count", v) }

// TTL crea un campo para una duración de expiración.
func TTL(v time.Duration) zap.Field { return zap.Duration("ttl", v) }

// Any crea un campo genérico para cualquier tipo.
func Any(key string, v any) zap.Field { return zap.Any(key, v) }

// String crea un campo string genérico.
func String(key, v string) zap.Field { return zap.String(key, v) }
