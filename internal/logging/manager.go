package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Компоненты редактора, получающие собственные логгеры
const (
	ComponentImport  = "import"
	ComponentPicking = "picking"
)

// LoggerManager выдаёт логгеры компонентов редактора.
// Пока менеджер не настроен через Configure, компоненты пишут только в консоль
// (уровень WARN) и не создают файлов: так ведут себя тесты и встраивание в чужой процесс.
type LoggerManager struct {
	mu         sync.RWMutex
	loggers    map[string]*Logger
	configured bool
	console    LogLevel
	file       LogLevel
	fallback   io.Writer
}

var (
	globalManager *LoggerManager
	managerOnce   sync.Once
)

// NewLoggerManager создаёт ненастроенный менеджер; w получает консольный вывод (nil — stderr)
func NewLoggerManager(w io.Writer) *LoggerManager {
	if w == nil {
		w = os.Stderr
	}
	return &LoggerManager{
		loggers:  make(map[string]*Logger),
		console:  WARN,
		file:     TRACE,
		fallback: w,
	}
}

// GetLoggerManager возвращает глобальный менеджер логгеров
func GetLoggerManager() *LoggerManager {
	managerOnce.Do(func() {
		globalManager = NewLoggerManager(nil)
	})
	return globalManager
}

// Configure включает файловые логи в LogDir и задаёт уровень консоли из строки конфигурации.
// Файл получает все сообщения начиная с TRACE. Уже выданные логгеры меняют уровни,
// но продолжают писать туда же, куда писали.
func (lm *LoggerManager) Configure(level string) error {
	console, err := ParseLevel(level)
	if err != nil {
		return err
	}

	lm.mu.Lock()
	defer lm.mu.Unlock()
	lm.configured = true
	lm.console, lm.file = console, TRACE
	for _, logger := range lm.loggers {
		logger.SetLevels(lm.console, lm.file)
	}
	return nil
}

// GetLogger возвращает логгер компонента, создавая его при первом обращении
func (lm *LoggerManager) GetLogger(component string) (*Logger, error) {
	lm.mu.RLock()
	if logger, exists := lm.loggers[component]; exists {
		lm.mu.RUnlock()
		return logger, nil
	}
	lm.mu.RUnlock()

	lm.mu.Lock()
	defer lm.mu.Unlock()

	// Другая горутина могла успеть создать логгер
	if logger, exists := lm.loggers[component]; exists {
		return logger, nil
	}

	if !lm.configured {
		logger := NewWriterLogger(component, lm.fallback, lm.console)
		lm.loggers[component] = logger
		return logger, nil
	}

	logger, err := NewLogger(component)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания логгера %s: %w", component, err)
	}
	logger.SetLevels(lm.console, lm.file)
	lm.loggers[component] = logger
	return logger, nil
}

// MustGetLogger возвращает логгер компонента; при ошибке файла пишет только в консоль
func (lm *LoggerManager) MustGetLogger(component string) *Logger {
	logger, err := lm.GetLogger(component)
	if err == nil {
		return logger
	}

	lm.mu.Lock()
	defer lm.mu.Unlock()
	logger = NewWriterLogger(component, lm.fallback, lm.console)
	logger.Warn("Файловый лог недоступен: %v", err)
	lm.loggers[component] = logger
	return logger
}

// CloseAll закрывает файлы логгеров и забывает их
func (lm *LoggerManager) CloseAll() error {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	var lastErr error
	for component, logger := range lm.loggers {
		if err := logger.Close(); err != nil {
			lastErr = fmt.Errorf("ошибка закрытия логгера %s: %w", component, err)
		}
	}
	lm.loggers = make(map[string]*Logger)
	return lastErr
}

// GetImportLogger возвращает логгер импорта схематик
func GetImportLogger() *Logger {
	return GetLoggerManager().MustGetLogger(ComponentImport)
}

// GetPickingLogger возвращает логгер выбора блоков
func GetPickingLogger() *Logger {
	return GetLoggerManager().MustGetLogger(ComponentPicking)
}
