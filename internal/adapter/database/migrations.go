package database

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SchemaMigration registra os arquivos SQL já aplicados
type SchemaMigration struct {
	ID        uint  `gorm:"primaryKey"`
	Version   int64 `gorm:"uniqueIndex"`
	Name      string
	AppliedAt time.Time
}

func (SchemaMigration) TableName() string { return "schema_migrations" }

// MigrationFile representa um arquivo no formato YYYYMMDDHHMMSS_nome.sql
type MigrationFile struct {
	Version int64
	Name    string
	Path    string
}

// MigrationManager aplica os arquivos SQL complementares ao AutoMigrate
// (índices parciais, ajustes de dados) em ordem de versão
type MigrationManager struct {
	db        *gorm.DB
	logger    *zap.Logger
	directory string
	fsys      fs.FS
}

// NewMigrationManager cria um gerenciador que lê os arquivos do diretório informado
func NewMigrationManager(db *gorm.DB, logger *zap.Logger, directory string) *MigrationManager {
	m := &MigrationManager{db: db, logger: logger, directory: directory}
	if directory != "" {
		m.fsys = os.DirFS(directory)
	}
	return m
}

// WithFS troca a origem dos arquivos (ex.: embed.FS)
func (m *MigrationManager) WithFS(fsys fs.FS) *MigrationManager {
	m.fsys = fsys
	return m
}

// Pending lista as migrações ainda não aplicadas
func (m *MigrationManager) Pending(ctx context.Context) ([]MigrationFile, error) {
	if err := m.db.WithContext(ctx).AutoMigrate(&SchemaMigration{}); err != nil {
		return nil, fmt.Errorf("falha ao criar tabela de migrações: %w", err)
	}

	var applied []SchemaMigration
	if err := m.db.WithContext(ctx).Find(&applied).Error; err != nil {
		return nil, fmt.Errorf("falha ao buscar migrações aplicadas: %w", err)
	}
	done := make(map[int64]bool, len(applied))
	for _, a := range applied {
		done[a.Version] = true
	}

	files, err := m.findMigrationFiles()
	if err != nil {
		return nil, err
	}

	pending := make([]MigrationFile, 0, len(files))
	for _, f := range files {
		if !done[f.Version] {
			pending = append(pending, f)
		}
	}
	return pending, nil
}

// ApplyMigrations aplica cada migração pendente na sua própria transação
func (m *MigrationManager) ApplyMigrations(ctx context.Context) error {
	pending, err := m.Pending(ctx)
	if err != nil {
		return err
	}

	for _, file := range pending {
		content, err := fs.ReadFile(m.fsys, file.Path)
		if err != nil {
			return fmt.Errorf("falha ao ler arquivo de migração %s: %w", file.Path, err)
		}

		m.logger.Info("Aplicando migração", zap.Int64("version", file.Version), zap.String("name", file.Name))

		err = m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			for _, stmt := range splitSQLCommands(string(content)) {
				if err := tx.Exec(stmt).Error; err != nil {
					return fmt.Errorf("falha ao executar migração %s: %w", file.Name, err)
				}
			}
			return tx.Create(&SchemaMigration{
				Version:   file.Version,
				Name:      file.Name,
				AppliedAt: time.Now(),
			}).Error
		})
		if err != nil {
			return err
		}
	}

	if len(pending) > 0 {
		m.logger.Info("Migrações aplicadas com sucesso", zap.Int("count", len(pending)))
	}
	return nil
}

// splitSQLCommands separa comandos por ponto e vírgula, ignorando os que
// aparecem dentro de strings e comentários
func splitSQLCommands(sql string) []string {
	var (
		commands []string
		current  strings.Builder
		inString bool
		inLine   bool
		inBlock  bool
	)

	flush := func() {
		if cmd := strings.TrimSpace(current.String()); cmd != "" && cmd != ";" {
			commands = append(commands, cmd)
		}
		current.Reset()
	}

	for i := 0; i < len(sql); i++ {
		ch := sql[i]
		next := byte(0)
		if i+1 < len(sql) {
			next = sql[i+1]
		}

		switch {
		case inLine:
			if ch == '\n' {
				inLine = false
			}
		case inBlock:
			if ch == '*' && next == '/' {
				inBlock = false
				current.WriteString("*/")
				i++
				continue
			}
		case inString:
			if ch == '\'' {
				inString = false
			}
		case ch == '-' && next == '-':
			inLine = true
		case ch == '/' && next == '*':
			inBlock = true
		case ch == '\'':
			inString = true
		case ch == ';':
			current.WriteByte(ch)
			flush()
			continue
		}

		current.WriteByte(ch)
	}
	flush()

	return commands
}

// findMigrationFiles lista os .sql ordenados por versão; diretório ausente não é erro
func (m *MigrationManager) findMigrationFiles() ([]MigrationFile, error) {
	if m.fsys == nil {
		return nil, nil
	}

	var files []MigrationFile
	err := fs.WalkDir(m.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".sql") {
			return nil
		}

		parts := strings.SplitN(d.Name(), "_", 2)
		if len(parts) != 2 {
			m.logger.Warn("Formato de arquivo de migração inválido", zap.String("file", d.Name()))
			return nil
		}
		version, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			m.logger.Warn("Versão de migração inválida", zap.String("file", d.Name()))
			return nil
		}

		files = append(files, MigrationFile{
			Version: version,
			Name:    strings.TrimSuffix(parts[1], ".sql"),
			Path:    path.Clean(p),
		})
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("falha ao listar arquivos de migração: %w", err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Version < files[j].Version })
	return files, nil
}

// CreateMigration cria um arquivo de migração vazio no diretório configurado
func (m *MigrationManager) CreateMigration(name string) (string, error) {
	if m.directory == "" {
		return "", errors.New("diretório de migrações não configurado")
	}

	name = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
	if name == "" {
		return "", errors.New("nome da migração é obrigatório")
	}

	if err := os.MkdirAll(m.directory, 0755); err != nil {
		return "", fmt.Errorf("falha ao criar diretório: %w", err)
	}

	filename := fmt.Sprintf("%s_%s.sql", time.Now().Format("20060102150405"), name)
	fullPath := filepath.Join(m.directory, filename)

	if err := os.WriteFile(fullPath, []byte("-- "+name+"\n"), 0644); err != nil {
		return "", fmt.Errorf("falha ao criar arquivo: %w", err)
	}

	return fullPath, nil
}
