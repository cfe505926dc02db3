// Package logger provides a singleton Zap logger with context-based scoping.
//
// # Design Decisions
//
//   - Singleton: una sola instancia global inicializada con Init().
//   - Context Scoping: cada request tiene su logger "scoped" (request_id, form_id)
//     sin crear un nuevo core.
//   - Environments: "dev" usa consola con colores, "prod" usa JSON.
//   - Nunca se loguean passwords; para el email sólo el dominio (EmailDomain).
//
// # Usage
//
//	logger.Init(logger.Config{
//	    Env:   cfg.App.Env,
//	    Level: cfg.Log.Level,
//	})
//	defer logger.Sync()
//
//	log := logger.From(ctx)
//	log.Info("form submitted", logger.FormID(id))
package logger
