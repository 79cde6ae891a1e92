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
	"log"

	"github.com/georgysavva/scany/pgxscan"
	"github.com/jackc/pgx/v4"
	"github.com/maxsupermanhd/VoxelGrid/chunkStorage"
)

func (s *PostgresChunkStorage) GetChunkRaw(wname string, cx, cy int) ([]byte, error) {
	ctx, cancel := s.ctx()
	defer cancel()
	var d []byte
	derr := s.dbpool.QueryRow(ctx, `
		select data
		from chunks
		where world = $1 and x = $2 and y = $3
		order by created_at desc
		limit 1;`, wname, cx, cy).Scan(&d)
	if derr != nil {
		if derr == pgx.ErrNoRows {
			derr = nil
		} else {
			log.Print(derr.Error())
		}
		return nil, derr
	}
	return d, nil
}

func (s *PostgresChunkStorage) GetChunk(wname string, cx, cy int) (*chunkStorage.SavedChunk, error) {
	d, err := s.GetChunkRaw(wname, cx, cy)
	if err != nil || d == nil {
		return nil, err
	}
	return chunkStorage.DecodeChunk(d)
}

func (s *PostgresChunkStorage) AddChunkRaw(wname string, cx, cy int, dat []byte) error {
	ctx, cancel := s.ctx()
	defer cancel()
	_, err := s.dbpool.Exec(ctx, `insert into chunks (world, x, y, data) values ($1, $2, $3, $4)`,
		wname, cx, cy, dat)
	return err
}

func (s *PostgresChunkStorage) AddChunk(wname string, col chunkStorage.SavedChunk) error {
	d, err := chunkStorage.EncodeChunk(col)
	if err != nil {
		return err
	}
	return s.AddChunkRaw(wname, int(col.XPos), int(col.YPos), d)
}

// GetChunkHistory lists stored revisions of a chunk, newest first.
func (s *PostgresChunkStorage) GetChunkHistory(wname string, cx, cy int) ([]chunkStorage.ChunkRevision, error) {
	ctx, cancel := s.ctx()
	defer cancel()
	ret := []chunkStorage.ChunkRevision{}
	derr := pgxscan.Select(ctx, s.dbpool, &ret, `
		select id, octet_length(data) as size, created_at
		from chunks
		where world = $1 and x = $2 and y = $3
		order by created_at desc`, wname, cx, cy)
	return ret, derr
}

func (s *PostgresChunkStorage) ListWorldNames() ([]string, error) {
	ctx, cancel := s.ctx()
	defer cancel()
	ret := []string{}
	derr := pgxscan.Select(ctx, s.dbpool, &ret, `select distinct world from chunks order by world`)
	if derr == pgx.ErrNoRows {
		derr = nil
	}
	return ret, derr
}

func (s *PostgresChunkStorage) GetChunksCount() (chunksCount uint64, derr error) {
	ctx, cancel := s.ctx()
	defer cancel()
	derr = s.dbpool.QueryRow(ctx, `SELECT COUNT(id) from chunks;`).Scan(&chunksCount)
	return chunksCount, derr
}

func (s *PostgresChunkStorage) GetChunksSize() (chunksSize uint64, derr error) {
	ctx, cancel := s.ctx()
	defer cancel()
	derr = s.dbpool.QueryRow(ctx, `SELECT pg_total_relation_size('chunks');`).Scan(&chunksSize)
	return chunksSize, derr
}
