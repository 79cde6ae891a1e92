/*
	VoxelGrid, chunked 2D voxel world server
	Copyright (C) 2022 Maxim Zhuchkov

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU Affero General Public License as published
	by the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU Affero General Public License for more details.

	You should have received a copy of the GNU Affero General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.

	Contact me via mail: q3.max.2011@yandex.ru or Discord: MaX#6717
*/

package postgresChunkStorage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/maxsupermanhd/VoxelGrid/chunkStorage"
)

const schema = `
create table if not exists chunks (
	id serial primary key,
	world text not null,
	x integer not null,
	y integer not null,
	data bytea not null,
	created_at timestamptz not null default now()
);
create index if not exists chunks_world_xy on chunks (world, x, y, created_at desc);`

type PostgresChunkStorage struct {
	dbpool  *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresChunkStorage(ctx context.Context, connection string) (*PostgresChunkStorage, error) {
	p, err := pgxpool.Connect(ctx, connection)
	if err != nil {
		return nil, err
	}
	_, err = p.Exec(ctx, schema)
	if err != nil {
		p.Close()
		return nil, err
	}
	return &PostgresChunkStorage{dbpool: p, timeout: 10 * time.Second}, nil
}

func (s *PostgresChunkStorage) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

func (s *PostgresChunkStorage) Close() error {
	s.dbpool.Close()
	return nil
}

func (s *PostgresChunkStorage) GetAbilities() chunkStorage.StorageAbilities {
	return chunkStorage.StorageAbilities{
		CanAddChunks:         true,
		CanPreserveOldChunks: true,
	}
}

func (s *PostgresChunkStorage) GetStatus() (ver string, err error) {
	ctx, cancel := s.ctx()
	defer cancel()
	err = s.dbpool.QueryRow(ctx, `SELECT version();`).Scan(&ver)
	return
}
